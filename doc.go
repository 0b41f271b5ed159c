// Package greenlake provides an administrative Go client for the HPE
// GreenLake Platform (subscriptions, device licensing) and Compute Ops
// Management (external-service integrations) REST APIs.
//
// Bulk mutators report one status record per input item, in input
// order, and submit the surviving items in a single batched request:
//
//	client, _ := greenlake.New(
//	    greenlake.WithCredentials(id, secret),
//	    greenlake.WithRegion("us-west"),
//	)
//	results, _ := client.Subscriptions().Add(ctx, keys)
//	for _, r := range results {
//	    fmt.Println(r.Identifier, r.Outcome, r.Detail)
//	}
//
// Every mutator accepts greenlake.DryRun(): the intended call is
// described on the configured logger and no request leaves the client.
//
// Integrations live on regional Compute Ops Management endpoints:
//
//	integrations, _ := client.Integrations("eu-central")
//	results, _ = integrations.Test(ctx, "snow-prod")
package greenlake
