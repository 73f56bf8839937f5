package mobius

import "testing"

func TestScanForDevices(t *testing.T) {
	tr := &fakeTransport{
		namePeers: []*fakePeripheral{
			{address: "a4:c1:38:00:00:01"},
			{address: "a4:c1:38:00:00:02"},
		},
	}

	addresses, err := ScanForDevices(tr, testConfig())
	if err != nil {
		t.Fatalf("ScanForDevices() error = %v", err)
	}
	want := []string{"a4:c1:38:00:00:01", "a4:c1:38:00:00:02"}
	if len(addresses) != len(want) {
		t.Fatalf("addresses = %v, want %v", addresses, want)
	}
	for i := range want {
		if addresses[i] != want[i] {
			t.Errorf("addresses[%d] = %s, want %s", i, addresses[i], want[i])
		}
	}
	if tr.nameScans != 1 {
		t.Errorf("name scans = %d, want 1", tr.nameScans)
	}
	if tr.stops == 0 {
		t.Error("scan was not stopped")
	}
}

func TestScanForDevicesNoneFound(t *testing.T) {
	tr := &fakeTransport{availableAfter: -1}

	addresses, err := ScanForDevices(tr, testConfig())
	if err != nil {
		t.Fatalf("ScanForDevices() error = %v", err)
	}
	if len(addresses) != 0 {
		t.Errorf("addresses = %v, want none", addresses)
	}
	// Polling is bounded: one NextAvailable probe per empty round.
	if tr.nextCalls != scanPollRounds {
		t.Errorf("polls = %d, want %d", tr.nextCalls, scanPollRounds)
	}
	if tr.stops == 0 {
		t.Error("scan was not stopped")
	}
}
