package xosc

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, []byte(content), 0o600)
	test.That(t, err, test.ShouldBeNil)
	return path
}

const scenarioXML = `<?xml version="1.0"?>
<OpenSCENARIO>
  <RoadNetwork>
    <LogicFile filepath="Town01.xodr"/>
  </RoadNetwork>
  <Entities>
    <ScenarioObject name="Ego"/>
  </Entities>
  <Storyboard/>
</OpenSCENARIO>`

const catalogXML = `<?xml version="1.0"?>
<OpenSCENARIO>
  <Catalog name="VehicleCatalog">
    <Vehicle name="car1"/>
  </Catalog>
</OpenSCENARIO>`

const distributionXML = `<?xml version="1.0"?>
<OpenSCENARIO>
  <ParameterValueDistribution>
    <ScenarioFile filepath="x.xosc"/>
  </ParameterValueDistribution>
</OpenSCENARIO>`

const noStoryboardXML = `<?xml version="1.0"?>
<OpenSCENARIO>
  <Entities/>
</OpenSCENARIO>`

func TestClassifyScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "s.xosc", scenarioXML)
	result, err := Classify(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Kind, test.ShouldEqual, KindScenario)
	test.That(t, result.ImplicitXodrPath, test.ShouldEqual, filepath.Join(dir, "Town01.xodr"))
}

func TestClassifyCatalog(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "c.xosc", catalogXML)
	result, err := Classify(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Kind, test.ShouldEqual, KindCatalog)
}

func TestClassifyParameterDistribution(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "d.xosc", distributionXML)
	result, err := Classify(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Kind, test.ShouldEqual, KindParameterDistribution)
	test.That(t, result.ReferencedFile, test.ShouldEqual, "x.xosc")
}

func TestClassifyNoStoryboard(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "n.xosc", noStoryboardXML)
	result, err := Classify(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Kind, test.ShouldEqual, KindNoStoryboard)
}

func TestClassifyScenarioWithoutXodrReference(t *testing.T) {
	dir := t.TempDir()
	path := writeTemp(t, dir, "s2.xosc", `<OpenSCENARIO><Storyboard/></OpenSCENARIO>`)
	result, err := Classify(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Kind, test.ShouldEqual, KindScenario)
	test.That(t, result.ImplicitXodrPath, test.ShouldEqual, "")
}

func TestClassifyIsTotalAndIdempotent(t *testing.T) {
	// §8.6 and §8.8: classification is a total function of the root
	// element's immediate children, and is stable across repeated calls.
	dir := t.TempDir()
	for _, content := range []string{scenarioXML, catalogXML, distributionXML, noStoryboardXML} {
		path := writeTemp(t, dir, "r.xosc", content)
		first, err := Classify(path)
		test.That(t, err, test.ShouldBeNil)
		second, err := Classify(path)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, first, test.ShouldResemble, second)
	}
}
