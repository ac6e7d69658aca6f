package mapbuild

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/osc2cr/converter/commonroad"
)

type stubConverter struct {
	network *commonroad.LaneletNetwork
	err     error
}

func (s *stubConverter) Convert(string) (*commonroad.LaneletNetwork, error) {
	return s.network, s.err
}

func TestBuildWithNoPathStartsEmpty(t *testing.T) {
	scenario, convErr := Build(&stubConverter{}, Params{DtCr: 0.1})
	test.That(t, convErr, test.ShouldBeNil)
	test.That(t, scenario.Lanelets.IsEmpty(), test.ShouldBeTrue)
	test.That(t, scenario.DtCr, test.ShouldEqual, 0.1)
}

func TestBuildWithMissingPathCapturesErrorNonFatally(t *testing.T) {
	scenario, convErr := Build(&stubConverter{}, Params{
		XodrPath: filepath.Join(t.TempDir(), "missing.xodr"),
		DtCr:     0.1,
	})
	test.That(t, convErr, test.ShouldNotBeNil)
	test.That(t, scenario, test.ShouldNotBeNil)
	test.That(t, scenario.Lanelets.IsEmpty(), test.ShouldBeTrue)
}

func TestBuildDelegatesWhenPathExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.xodr")
	test.That(t, os.WriteFile(path, []byte("<OpenDRIVE/>"), 0o600), test.ShouldBeNil)

	network := commonroad.NewLaneletNetwork()
	network.AddLanelet(&commonroad.Lanelet{ID: 1})
	scenario, convErr := Build(&stubConverter{network: network}, Params{XodrPath: path, DtCr: 0.2})
	test.That(t, convErr, test.ShouldBeNil)
	test.That(t, scenario.Lanelets.IsEmpty(), test.ShouldBeFalse)
	test.That(t, scenario.DtCr, test.ShouldEqual, 0.2)
}

func TestBuildConverterFailureCapturesErrorNonFatally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.xodr")
	test.That(t, os.WriteFile(path, []byte("<OpenDRIVE/>"), 0o600), test.ShouldBeNil)

	converter := &stubConverter{err: errors.New("bad road geometry")}
	scenario, convErr := Build(converter, Params{XodrPath: path, DtCr: 0.1})
	test.That(t, convErr, test.ShouldNotBeNil)
	test.That(t, convErr.XodrPath, test.ShouldEqual, path)
	test.That(t, scenario.Lanelets.IsEmpty(), test.ShouldBeTrue)
	test.That(t, convErr.Traceback(), test.ShouldNotBeBlank)
}
