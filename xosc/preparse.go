package xosc

import "path/filepath"

// Kind is the classification a file's root element implies, per §4.1.
type Kind int

const (
	// KindScenario has a Storyboard child; it is a driveable scenario.
	KindScenario Kind = iota
	// KindCatalog has a Catalog child and no Storyboard.
	KindCatalog
	// KindParameterDistribution has a ParameterValueDistribution child
	// with a ScenarioFile[@filepath] child.
	KindParameterDistribution
	// KindNoStoryboard is none of the above.
	KindNoStoryboard
)

// PreParse is the result of classify(path) from §4.1.
type PreParse struct {
	Kind Kind

	// ImplicitXodrPath is set only for KindScenario when a
	// RoadNetwork/LogicFile[@filepath] child chain is present, resolved
	// relative to the XOSC file's directory.
	ImplicitXodrPath string

	// ReferencedFile is set only for KindParameterDistribution, carrying
	// the (unfollowed) ScenarioFile[@filepath] value.
	ReferencedFile string
}

// Classify implements §4.1's classify(path) -> PreParse.
//
// Precedence, per the spec text: Storyboard child => Scenario, regardless
// of any other children present; else Catalog child => IsCatalog; else a
// ParameterValueDistribution child with a ScenarioFile[@filepath] =>
// IsParameterDistribution; else NoStoryboard.
func Classify(path string) (PreParse, error) {
	root, err := parseFile(path)
	if err != nil {
		return PreParse{}, err
	}
	return classifyNode(root, filepath.Dir(path)), nil
}

func classifyNode(root Node, dir string) PreParse {
	if root.HasChild("Storyboard") {
		result := PreParse{Kind: KindScenario}
		if roadNetwork, ok := root.Child("RoadNetwork"); ok {
			if logicFile, ok := roadNetwork.Child("LogicFile"); ok {
				if path, ok := logicFile.Attr("filepath"); ok {
					result.ImplicitXodrPath = filepath.Join(dir, path)
				}
			}
		}
		return result
	}
	if root.HasChild("Catalog") {
		return PreParse{Kind: KindCatalog}
	}
	if distribution, ok := root.Child("ParameterValueDistribution"); ok {
		if scenarioFile, ok := distribution.Child("ScenarioFile"); ok {
			if path, ok := scenarioFile.Attr("filepath"); ok {
				return PreParse{Kind: KindParameterDistribution, ReferencedFile: path}
			}
		}
	}
	return PreParse{Kind: KindNoStoryboard}
}
