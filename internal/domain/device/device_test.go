package device

import "testing"

func TestTypeIsValid(t *testing.T) {
	for _, dt := range []Type{TypeCompute, TypeStorage, TypeGateway} {
		if !dt.IsValid() {
			t.Errorf("expected %s to be valid", dt)
		}
	}
	if Type("SWITCH").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}

func TestAssignmentChecks(t *testing.T) {
	assigned := Reconstruct("id1", "SN001", "P001", TypeCompute, "Compute Ops Management", "us-west", "")
	unassigned := Reconstruct("id2", "SN002", "P001", TypeCompute, "", "", "")
	licensed := Reconstruct("id3", "SN003", "P001", TypeCompute, "Compute Ops Management", "us-west", "AAAA1111")

	if !assigned.IsAssigned() {
		t.Error("device with application should be assigned")
	}
	if unassigned.IsAssigned() {
		t.Error("device without application should not be assigned")
	}
	if assigned.HasSubscription() {
		t.Error("device without key should not report a subscription")
	}
	if !licensed.HasSubscription() {
		t.Error("device with key should report a subscription")
	}
}
