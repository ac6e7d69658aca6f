package batch

import (
	"fmt"
	"os"
	"path/filepath"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/atomic"

	"github.com/osc2cr/converter/commonroad"
)

// ResultStore implements C13: it serialises heavy artifacts (scenario +
// planning problem) into side files keyed by a monotone counter, per §4.11
// and §6's persistence layout (Res_<basename><n>.pickle is this module's
// Res_<basename><n>.bson). The in-memory Handle carries only the file path
// and loads on demand; with lazyLoad false, Persist also reads each file
// back once and returns its decode error. The counter is a
// lock-free atomic.Int64, the same pattern commonroad.Scenario uses for
// its obstacle-id generator.
type ResultStore struct {
	storageDir string
	counter    *atomic.Int64
	lazyLoad   bool
}

// NewResultStore constructs a store rooted at storageDir, creating it if
// necessary.
func NewResultStore(storageDir string, lazyLoad bool) (*ResultStore, error) {
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("batch: creating storage dir: %w", err)
	}
	return &ResultStore{storageDir: storageDir, counter: atomic.NewInt64(0), lazyLoad: lazyLoad}, nil
}

// persistedArtifact is the on-disk shape of one conversion's heavy output.
// commonroad.Scenario keeps its obstacle set and assignment unexported (it
// is an invariant-enforcing type, not a data bag), so this is a flat DTO
// built from its public accessors rather than a direct BSON mapping of the
// domain type.
type persistedArtifact struct {
	DtCr            float64                            `bson:"dtCr"`
	Lanelets        *commonroad.LaneletNetwork         `bson:"lanelets"`
	Metadata        commonroad.Metadata                `bson:"metadata"`
	Obstacles       []obstacleDoc                       `bson:"obstacles"`
	Assignment      commonroad.ShapeLaneletAssignments `bson:"assignment"`
	PlanningProblem *commonroad.PlanningProblem         `bson:"planningProblem"`
}

// obstacleDoc flattens commonroad.DynamicObstacle's Shape interface field
// into two plain values: BSON (like JSON) cannot marshal an interface
// without a registered concrete type, so ShapeIsCircle plus the two
// dimensions carries the same information without one.
type obstacleDoc struct {
	ID            int                  `bson:"id"`
	ObstacleType  commonroad.ObstacleType `bson:"obstacleType"`
	ShapeIsCircle bool                 `bson:"shapeIsCircle"`
	ShapeA        float64              `bson:"shapeA"`
	ShapeB        float64              `bson:"shapeB"`
	InitialState  commonroad.State     `bson:"initialState"`
	Prediction    commonroad.Trajectory `bson:"prediction"`
}

func toObstacleDoc(o *commonroad.DynamicObstacle) obstacleDoc {
	a, b := o.Shape.Dimensions()
	_, isCircle := o.Shape.(commonroad.CircleShape)
	return obstacleDoc{
		ID:            o.ID,
		ObstacleType:  o.ObstacleType,
		ShapeIsCircle: isCircle,
		ShapeA:        a,
		ShapeB:        b,
		InitialState:  o.InitialState,
		Prediction:    o.Prediction,
	}
}

func (d obstacleDoc) toObstacle() *commonroad.DynamicObstacle {
	var shape commonroad.Shape
	if d.ShapeIsCircle {
		shape = commonroad.CircleShape{Radius: d.ShapeA}
	} else {
		shape = commonroad.RectangleShape{Length: d.ShapeA, Width: d.ShapeB}
	}
	return &commonroad.DynamicObstacle{
		ID:           d.ID,
		ObstacleType: d.ObstacleType,
		Shape:        shape,
		InitialState: d.InitialState,
		Prediction:   d.Prediction,
	}
}

func toArtifact(scenario *commonroad.Scenario, problem *commonroad.PlanningProblem) persistedArtifact {
	obstacles := scenario.Obstacles()
	docs := make([]obstacleDoc, len(obstacles))
	for i, o := range obstacles {
		docs[i] = toObstacleDoc(o)
	}
	return persistedArtifact{
		DtCr:            scenario.DtCr,
		Lanelets:        scenario.Lanelets,
		Metadata:        scenario.Metadata,
		Obstacles:       docs,
		Assignment:      scenario.Assignment(),
		PlanningProblem: problem,
	}
}

func (a persistedArtifact) toScenario() *commonroad.Scenario {
	scenario := commonroad.NewScenario(a.DtCr, a.Metadata)
	if a.Lanelets != nil {
		scenario.Lanelets = a.Lanelets
	}
	for _, d := range a.Obstacles {
		_ = scenario.AddObstacle(d.toObstacle())
	}
	if a.Assignment != nil {
		scenario.SetAssignment(a.Assignment)
	}
	return scenario
}

// Handle is the in-memory record: only a path, loaded lazily per §9's
// ownership note ("both variants are representable by a tagged union...
// Lazy loading is optional and controlled by a flag on the store").
type Handle struct {
	store *ResultStore
	Path  string
}

// reservePath allocates a unique artifact path under the store's monotone
// counter without writing anything, so a caller that will do the actual
// conversion out-of-process (batch.Driver's subprocess worker mode) can
// still get a collision-free filename from the parent.
func (s *ResultStore) reservePath(xoscBasename string) string {
	n := s.counter.Add(1)
	return filepath.Join(s.storageDir, fmt.Sprintf("Res_%s%d.bson", trimExt(xoscBasename), n))
}

// WriteArtifact marshals scenario+problem to path. It is exported so a
// batch worker subprocess, which has no access to the parent's in-memory
// ResultStore, can write to a path the parent already reserved.
func WriteArtifact(path string, scenario *commonroad.Scenario, problem *commonroad.PlanningProblem) error {
	data, err := bson.Marshal(toArtifact(scenario, problem))
	if err != nil {
		return fmt.Errorf("batch: marshaling result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("batch: writing result: %w", err)
	}
	return nil
}

// Persist implements §4.11's "ResultStore guarantees uniqueness of
// filenames via a counter protected by a process-wide lock": it writes one
// BSON side file named from the xosc basename and the store's monotone
// counter, and returns a Handle carrying only that path.
func (s *ResultStore) Persist(xoscBasename string, scenario *commonroad.Scenario, problem *commonroad.PlanningProblem) (*Handle, error) {
	path := s.reservePath(xoscBasename)
	if err := WriteArtifact(path, scenario, problem); err != nil {
		return nil, err
	}
	if !s.lazyLoad {
		// Eager mode reads the file back once so a corrupt write fails here.
		if _, _, err := s.Load(path); err != nil {
			return nil, err
		}
	}
	return &Handle{store: s, Path: path}, nil
}

// NextScenarioPath implements the CommonRoad scenario side file naming from
// §6: "a filename derived from the XOSC basename and a monotone counter."
// The XML body itself is produced by the CommonRoad I/O collaborator, out
// of this module's scope (§1); this just picks the unique path.
func (s *ResultStore) NextScenarioPath(xoscBasename string) string {
	n := s.counter.Add(1)
	return filepath.Join(s.storageDir, fmt.Sprintf("%s%d.xml", trimExt(xoscBasename), n))
}

// Load reads and decodes the artifact at path.
func (s *ResultStore) Load(path string) (*commonroad.Scenario, *commonroad.PlanningProblem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("batch: reading result: %w", err)
	}
	var artifact persistedArtifact
	if err := bson.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("batch: unmarshaling result: %w", err)
	}
	return artifact.toScenario(), artifact.PlanningProblem, nil
}

// Load lazily loads the handle's artifact.
func (h *Handle) Load() (*commonroad.Scenario, *commonroad.PlanningProblem, error) {
	return h.store.Load(h.Path)
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

// PersistStatistics atomically writes the full BatchEntry map to
// statistics.pickle (this module's BSON analog), per §4.11: "the full
// result map is persisted atomically to a known filename." Atomicity is
// achieved by writing to a temp file in the same directory and renaming,
// since POSIX rename is atomic within a filesystem.
func PersistStatistics(storageDir string, entries map[string]*BatchEntry) error {
	data, err := bson.Marshal(struct {
		Entries map[string]*BatchEntry `bson:"entries"`
	}{Entries: entries})
	if err != nil {
		return fmt.Errorf("batch: marshaling statistics: %w", err)
	}
	finalPath := filepath.Join(storageDir, "statistics.bson")
	tmp, err := os.CreateTemp(storageDir, "statistics-*.tmp")
	if err != nil {
		return fmt.Errorf("batch: creating temp statistics file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("batch: writing temp statistics file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("batch: closing temp statistics file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("batch: renaming statistics file: %w", err)
	}
	return nil
}
