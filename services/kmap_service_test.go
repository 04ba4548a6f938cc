package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeKMapFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "k_map.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write k map file: %v", err)
	}
	return path
}

func TestKForBeforeLoad(t *testing.T) {
	km := NewKMap("./does-not-exist.csv")
	if got := km.KFor("G101"); got != DefaultK {
		t.Errorf("KFor before load = %d, want %d", got, DefaultK)
	}
	if got := km.KFor(""); got != DefaultK {
		t.Errorf("KFor empty = %d, want %d", got, DefaultK)
	}
}

func TestKMapLoadFromFile(t *testing.T) {
	path := writeKMapFile(t, "train,k\nG101,1\nd202,2\nK303,3\n")

	km := NewKMap(path)
	if err := km.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if km.Size() != 3 {
		t.Fatalf("Size = %d, want 3", km.Size())
	}
	if got := km.KFor("G101"); got != 1 {
		t.Errorf("KFor(G101) = %d, want 1", got)
	}
	// Lookup is case-insensitive both ways.
	if got := km.KFor("D202"); got != 2 {
		t.Errorf("KFor(D202) = %d, want 2", got)
	}
	if got := km.KFor("k303"); got != 3 {
		t.Errorf("KFor(k303) = %d, want 3", got)
	}
	if got := km.KFor("Z999"); got != DefaultK {
		t.Errorf("KFor(Z999) = %d, want default %d", got, DefaultK)
	}
}

func TestKMapSkipsMalformedRows(t *testing.T) {
	path := writeKMapFile(t, "train_number,k_value\r\nG1,1\r\n\r\nnot a row\nG2,9\nG3,zero\n,2\nG4, 2 \n")

	km := NewKMap(path)
	if err := km.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if km.Size() != 2 {
		t.Fatalf("Size = %d, want 2 (G1 and G4)", km.Size())
	}
	if got := km.KFor("G2"); got != DefaultK {
		t.Errorf("out-of-range tier kept: KFor(G2) = %d", got)
	}
	if got := km.KFor("G4"); got != 2 {
		t.Errorf("KFor(G4) = %d, want 2", got)
	}
}

func TestKMapMissingSourceIsNotFatal(t *testing.T) {
	good := writeKMapFile(t, "G1,1\n")

	km := NewKMap("./no-such-file.csv", good)
	if err := km.Load(context.Background()); err != nil {
		t.Fatalf("Load with one bad source: %v", err)
	}
	if got := km.KFor("G1"); got != 1 {
		t.Errorf("KFor(G1) = %d, want 1", got)
	}
}

func TestKMapLaterSourceWins(t *testing.T) {
	first := writeKMapFile(t, "G1,1\nG2,2\n")
	second := writeKMapFile(t, "G1,3\n")

	km := NewKMap(first, second)
	if err := km.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := km.KFor("G1"); got != 3 {
		t.Errorf("KFor(G1) = %d, want 3 (later source overrides)", got)
	}
	if got := km.KFor("G2"); got != 2 {
		t.Errorf("KFor(G2) = %d, want 2", got)
	}
}

func TestKMapConcurrentLoad(t *testing.T) {
	path := writeKMapFile(t, "G1,1\nG2,2\nG3,3\n")
	km := NewKMap(path)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := km.Load(context.Background()); err != nil {
				t.Errorf("concurrent Load: %v", err)
			}
			_ = km.KFor("G2")
		}()
	}
	wg.Wait()

	if km.Size() != 3 {
		t.Errorf("Size = %d, want 3", km.Size())
	}
}

func TestKMapLoadCancelled(t *testing.T) {
	path := writeKMapFile(t, "G1,1\n")
	km := NewKMap(path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := km.Load(ctx); err == nil {
		t.Fatal("expected error from cancelled load")
	}
	if got := km.KFor("G1"); got != DefaultK {
		t.Errorf("KFor after cancelled load = %d, want default", got)
	}

	// A later call retries and succeeds.
	if err := km.Load(context.Background()); err != nil {
		t.Fatalf("retry Load: %v", err)
	}
	if got := km.KFor("G1"); got != 1 {
		t.Errorf("KFor after retry = %d, want 1", got)
	}
}
