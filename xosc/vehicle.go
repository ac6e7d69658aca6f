package xosc

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Vehicle is the subset of an OpenSCENARIO Vehicle entry this package
// reads: axle geometry/steering limits and top-level dynamics limits (§6).
// The obstacle builder and planning problem do not consume it.
type Vehicle struct {
	Name string

	FrontAxleXPos    float64
	FrontAxleMaxSteer float64
	RearAxleXPos     float64
	RearAxleMaxSteer float64

	MaxSpeed        float64
	MaxAcceleration float64
}

// kmhParamPattern recognizes the one parameter-expression syntax §6
// contracts to interpret: "${<number>/3.6}" meaning number/3.6 (km/h to
// m/s). Any other parameter syntax is left to a direct float parse, which
// may fail -- OpenSCENARIO's general parameter/expression grammar is out of
// scope (§1 Non-goals).
var kmhParamPattern = regexp.MustCompile(`^\$\{(\d+\.?\d*)/3\.6\}$`)

// ParseFloatOrParam parses a numeric attribute value, recognizing the
// km/h->m/s parameter literal from §6.
func ParseFloatOrParam(s string) (float64, error) {
	if m := kmhParamPattern.FindStringSubmatch(s); m != nil {
		kmh, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, fmt.Errorf("parsing km/h literal %q: %w", s, err)
		}
		return kmh / 3.6, nil
	}
	return strconv.ParseFloat(s, 64)
}

func vehicleFromNode(name string, v Node) (*Vehicle, error) {
	out := &Vehicle{Name: name}
	if axles, ok := v.Child("Axles"); ok {
		if front, ok := axles.Child("FrontAxle"); ok {
			if err := setFloatAttr(front, "xpos", &out.FrontAxleXPos); err != nil {
				return nil, err
			}
			if err := setFloatAttr(front, "maxSteer", &out.FrontAxleMaxSteer); err != nil {
				return nil, err
			}
		}
		if rear, ok := axles.Child("RearAxle"); ok {
			if err := setFloatAttr(rear, "xpos", &out.RearAxleXPos); err != nil {
				return nil, err
			}
			if err := setFloatAttr(rear, "maxSteer", &out.RearAxleMaxSteer); err != nil {
				return nil, err
			}
		}
	}
	if dynamics, ok := v.Child("Performance"); ok {
		if err := setFloatAttr(dynamics, "maxSpeed", &out.MaxSpeed); err != nil {
			return nil, err
		}
		if err := setFloatAttr(dynamics, "maxAcceleration", &out.MaxAcceleration); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func setFloatAttr(n Node, attr string, dest *float64) error {
	raw, ok := n.Attr(attr)
	if !ok {
		return nil
	}
	v, err := ParseFloatOrParam(raw)
	if err != nil {
		return fmt.Errorf("attribute %s: %w", attr, err)
	}
	*dest = v
	return nil
}

// ResolveActors implements §4.1's resolve_actors(path, actor_names) ->
// map<name, optional Vehicle>. It first scans Entities/ScenarioObject for
// inline Vehicle entries; for names still unresolved it walks Catalog
// directories listed under Catalogs, preferring VehicleCatalog (Open
// Question (c) in §9, resolved: try VehicleCatalog first, then fall back to
// the remaining catalog directories), parsing each catalog file once.
func ResolveActors(path string, actorNames []string) (map[string]*Vehicle, error) {
	root, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)

	result := make(map[string]*Vehicle, len(actorNames))
	for _, name := range actorNames {
		result[name] = nil
	}

	if entities, ok := root.Child("Entities"); ok {
		for _, so := range entities.ChildrenNamed("ScenarioObject") {
			name, ok := so.Attr("name")
			if !ok {
				continue
			}
			if _, wanted := result[name]; !wanted {
				continue
			}
			if vehicleNode, ok := so.Child("Vehicle"); ok {
				v, err := vehicleFromNode(name, vehicleNode)
				if err != nil {
					return nil, fmt.Errorf("inline vehicle %q: %w", name, err)
				}
				result[name] = v
			}
		}
	}

	remaining := namesStillUnresolved(result)
	if len(remaining) == 0 {
		return result, nil
	}

	catalogsNode, ok := root.Child("Catalogs")
	if !ok {
		return result, nil
	}

	dirs := catalogDirectories(catalogsNode, dir)
	cache := map[string]*Vehicle{}
	for _, catalogDir := range dirs {
		if len(namesStillUnresolved(result)) == 0 {
			break
		}
		entries, err := os.ReadDir(catalogDir)
		if err != nil {
			continue // a missing/unreadable catalog directory is non-fatal at this layer
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			catalogFile := filepath.Join(catalogDir, entry.Name())
			catalogRoot, err := parseFile(catalogFile)
			if err != nil {
				continue
			}
			catalog, ok := catalogRoot.Child("Catalog")
			if !ok {
				continue
			}
			for _, vehicleNode := range catalog.ChildrenNamed("Vehicle") {
				entryName, ok := vehicleNode.Attr("name")
				if !ok {
					continue
				}
				if _, already := cache[entryName]; already {
					continue
				}
				v, err := vehicleFromNode(entryName, vehicleNode)
				if err != nil {
					continue
				}
				cache[entryName] = v
			}
		}
	}
	for name, v := range result {
		if v == nil {
			if cached, ok := cache[name]; ok {
				result[name] = cached
			}
		}
	}
	return result, nil
}

func namesStillUnresolved(result map[string]*Vehicle) []string {
	var names []string
	for name, v := range result {
		if v == nil {
			names = append(names, name)
		}
	}
	return names
}

// catalogDirectories lists the Directory[@path] values under Catalogs,
// VehicleCatalog first.
func catalogDirectories(catalogs Node, baseDir string) []string {
	var vehicleDirs, otherDirs []string
	for _, child := range catalogs.Children {
		dirs := directoryPaths(child, baseDir)
		if child.XMLName.Local == "VehicleCatalog" {
			vehicleDirs = append(vehicleDirs, dirs...)
		} else {
			otherDirs = append(otherDirs, dirs...)
		}
	}
	return append(vehicleDirs, otherDirs...)
}

func directoryPaths(catalogKind Node, baseDir string) []string {
	var out []string
	for _, d := range catalogKind.ChildrenNamed("Directory") {
		if p, ok := d.Attr("path"); ok {
			if !filepath.IsAbs(p) {
				p = filepath.Join(baseDir, p)
			}
			out = append(out, p)
		}
	}
	return out
}
