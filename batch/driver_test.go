package batch

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
	"github.com/osc2cr/converter/convert"
	"github.com/osc2cr/converter/esmini"
	"github.com/osc2cr/converter/simstate"
)

type batchFakeBridge struct{}

func (batchFakeBridge) Simulate(esmini.Params) (esmini.SimResult, error) {
	return esmini.SimResult{
		States: map[string]simstate.StateSeries{
			"Ego": {
				{ID: 1, Name: "Ego", Timestamp: 0, Length: 4, Width: 2, ObjectType: simstate.ObjectTypeVehicle},
				{ID: 1, Name: "Ego", Timestamp: 0.1, Length: 4, Width: 2, ObjectType: simstate.ObjectTypeVehicle},
			},
		},
		EndingCause: simstate.EndingEndDetected,
	}, nil
}

type batchNoopConverter struct{}

func (batchNoopConverter) Convert(string) (*commonroad.LaneletNetwork, error) {
	return commonroad.NewLaneletNetwork(), nil
}

func writeBatchFile(t *testing.T, dir, name, content string) {
	t.Helper()
	test.That(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600), test.ShouldBeNil)
}

func TestDriverRunProducesOneEntryPerFileAndPersistsStatistics(t *testing.T) {
	root := t.TempDir()
	writeBatchFile(t, root, "good.xosc", `<OpenSCENARIO><Storyboard/></OpenSCENARIO>`)
	writeBatchFile(t, root, "empty.xosc", `<OpenSCENARIO><Entities/></OpenSCENARIO>`)

	storageDir := t.TempDir()
	store, err := NewResultStore(storageDir, true)
	test.That(t, err, test.ShouldBeNil)

	coordinator := convert.NewCoordinator(batchNoopConverter{}, batchFakeBridge{}, nil)
	coordinator.ResolveActors = nil

	driver := &Driver{
		Coordinator: coordinator,
		Store:       store,
		ParamsFor: func(path string) convert.Params {
			return convert.Params{DtCr: 0.1, DtSim: 0.1, MaxTime: 10}
		},
		WorkerCount: 2,
	}

	entries, err := driver.Run(context.Background(), root, regexp.MustCompile(`\.xosc$`), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(entries), test.ShouldEqual, 2)

	goodPath := filepath.Join(root, "good.xosc")
	emptyPath := filepath.Join(root, "empty.xosc")

	test.That(t, entries[goodPath].Status, test.ShouldEqual, StatusSucceeded)
	test.That(t, entries[goodPath].ResultPath, test.ShouldNotEqual, "")

	test.That(t, entries[emptyPath].Status, test.ShouldEqual, StatusFailed)
	test.That(t, entries[emptyPath].Reason, test.ShouldEqual, "ScenarioFileContainsNoStoryboard")

	_, err = os.Stat(filepath.Join(storageDir, "statistics.bson"))
	test.That(t, err, test.ShouldBeNil)
}

func TestDriverRunInvokesOnEntryOncePerFile(t *testing.T) {
	root := t.TempDir()
	writeBatchFile(t, root, "a.xosc", `<OpenSCENARIO><Storyboard/></OpenSCENARIO>`)
	writeBatchFile(t, root, "b.xosc", `<OpenSCENARIO><Storyboard/></OpenSCENARIO>`)

	store, err := NewResultStore(t.TempDir(), true)
	test.That(t, err, test.ShouldBeNil)

	coordinator := convert.NewCoordinator(batchNoopConverter{}, batchFakeBridge{}, nil)
	coordinator.ResolveActors = nil

	var mu sync.Mutex
	seen := map[string]Status{}

	driver := &Driver{
		Coordinator: coordinator,
		Store:       store,
		ParamsFor: func(path string) convert.Params {
			return convert.Params{DtCr: 0.1, DtSim: 0.1, MaxTime: 10}
		},
		OnEntry: func(path string, entry *BatchEntry) {
			mu.Lock()
			seen[path] = entry.Status
			mu.Unlock()
		},
	}

	_, err = driver.Run(context.Background(), root, regexp.MustCompile(`\.xosc$`), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(seen), test.ShouldEqual, 2)
	for _, status := range seen {
		test.That(t, status, test.ShouldEqual, StatusSucceeded)
	}
}

func TestDriverRunWithNoMatchingFilesReturnsEmptyMap(t *testing.T) {
	root := t.TempDir()
	store, err := NewResultStore(t.TempDir(), true)
	test.That(t, err, test.ShouldBeNil)

	coordinator := convert.NewCoordinator(batchNoopConverter{}, batchFakeBridge{}, nil)
	driver := &Driver{
		Coordinator: coordinator,
		Store:       store,
		ParamsFor:   func(string) convert.Params { return convert.Params{} },
	}

	entries, err := driver.Run(context.Background(), root, regexp.MustCompile(`\.xosc$`), false)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(entries), test.ShouldEqual, 0)
}
