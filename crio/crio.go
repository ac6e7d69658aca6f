// Package crio is the in-repo stand-in for the CommonRoad I/O collaborator
// §6 names for the final ".xml" persistence step: "Persisted via the
// CommonRoad I/O collaborator to a .xml file... the in-memory result holds
// only the path." It implements a simplified version of the real
// CommonRoad XML scenario format, enough to round-trip what this module
// produces and to support `merge` mode reading existing scenario files.
package crio

import (
	"encoding/xml"
	"fmt"
	"os"

	"github.com/golang/geo/r3"

	"github.com/osc2cr/converter/commonroad"
)

func r3Vector(x, y float64) r3.Vector {
	return r3.Vector{X: x, Y: y}
}

type xmlState struct {
	TimeStep      int     `xml:"timeStep"`
	X             float64 `xml:"x"`
	Y             float64 `xml:"y"`
	PositionZ     float64 `xml:"positionZ"`
	Orientation   float64 `xml:"orientation"`
	PitchAngle    float64 `xml:"pitchAngle"`
	RollAngle     float64 `xml:"rollAngle"`
	Velocity      float64 `xml:"velocity"`
	Acceleration  float64 `xml:"acceleration"`
	YawRate       float64 `xml:"yawRate"`
	PitchRate     float64 `xml:"pitchRate"`
	RollRate      float64 `xml:"rollRate"`
	SteeringAngle float64 `xml:"steeringAngle"`
	SlipAngle     float64 `xml:"slipAngle"`
}

func toXMLState(s commonroad.State) xmlState {
	return xmlState{
		TimeStep: s.TimeStep, X: s.X, Y: s.Y, PositionZ: s.PositionZ,
		Orientation: s.Orientation, PitchAngle: s.PitchAngle, RollAngle: s.RollAngle,
		Velocity: s.Velocity, Acceleration: s.Acceleration, YawRate: s.YawRate,
		PitchRate: s.PitchRate, RollRate: s.RollRate,
		SteeringAngle: s.SteeringAngle, SlipAngle: s.SlipAngle,
	}
}

func (s xmlState) toState() commonroad.State {
	return commonroad.State{
		TimeStep: s.TimeStep, X: s.X, Y: s.Y, PositionZ: s.PositionZ,
		Orientation: s.Orientation, PitchAngle: s.PitchAngle, RollAngle: s.RollAngle,
		Velocity: s.Velocity, Acceleration: s.Acceleration, YawRate: s.YawRate,
		PitchRate: s.PitchRate, RollRate: s.RollRate,
		SteeringAngle: s.SteeringAngle, SlipAngle: s.SlipAngle,
	}
}

type xmlShape struct {
	IsCircle bool    `xml:"isCircle"`
	A        float64 `xml:"a"`
	B        float64 `xml:"b"`
}

type xmlObstacle struct {
	ID           int        `xml:"id,attr"`
	ObstacleType string     `xml:"type"`
	Shape        xmlShape   `xml:"shape"`
	Initial      xmlState   `xml:"initialState"`
	Trajectory   []xmlState `xml:"trajectory>state"`
}

type xmlLanelet struct {
	ID            int     `xml:"id,attr"`
	LeftBoundX    []float64 `xml:"leftBound>x"`
	LeftBoundY    []float64 `xml:"leftBound>y"`
	RightBoundX   []float64 `xml:"rightBound>x"`
	RightBoundY   []float64 `xml:"rightBound>y"`
	Predecessors  []int     `xml:"predecessor"`
	Successors    []int     `xml:"successor"`
}

type xmlPlanningProblem struct {
	ID      int      `xml:"id,attr"`
	Initial xmlState `xml:"initialState"`

	GoalTimeStepStart int     `xml:"goal>timeStep>start"`
	GoalTimeStepEnd   int     `xml:"goal>timeStep>end"`
	GoalLength        float64 `xml:"goal>position>length"`
	GoalWidth         float64 `xml:"goal>position>width"`
	GoalCenterX       float64 `xml:"goal>position>centerX"`
	GoalCenterY       float64 `xml:"goal>position>centerY"`
	GoalOrientation   float64 `xml:"goal>position>orientation"`
}

type xmlDocument struct {
	XMLName xml.Name `xml:"commonRoadScenario"`

	DtCr        float64       `xml:"dtCr,attr"`
	Author      string        `xml:"author,attr,omitempty"`
	Affiliation string        `xml:"affiliation,attr,omitempty"`
	Source      string        `xml:"source,attr,omitempty"`

	Lanelets        []xmlLanelet        `xml:"lanelets>lanelet"`
	Obstacles       []xmlObstacle       `xml:"obstacles>obstacle"`
	PlanningProblem *xmlPlanningProblem `xml:"planningProblem"`
}

func toDocument(scenario *commonroad.Scenario, problem *commonroad.PlanningProblem) xmlDocument {
	doc := xmlDocument{
		DtCr:        scenario.DtCr,
		Author:      scenario.Metadata.Author,
		Affiliation: scenario.Metadata.Affiliation,
		Source:      scenario.Metadata.Source,
	}
	for id, lane := range scenario.Lanelets.Lanelets {
		xl := xmlLanelet{ID: id, Predecessors: lane.Predecessors, Successors: lane.Successors}
		for _, p := range lane.LeftBound {
			xl.LeftBoundX = append(xl.LeftBoundX, p.X)
			xl.LeftBoundY = append(xl.LeftBoundY, p.Y)
		}
		for _, p := range lane.RightBound {
			xl.RightBoundX = append(xl.RightBoundX, p.X)
			xl.RightBoundY = append(xl.RightBoundY, p.Y)
		}
		doc.Lanelets = append(doc.Lanelets, xl)
	}
	for _, o := range scenario.Obstacles() {
		a, b := o.Shape.Dimensions()
		_, isCircle := o.Shape.(commonroad.CircleShape)
		xo := xmlObstacle{
			ID:           o.ID,
			ObstacleType: string(o.ObstacleType),
			Shape:        xmlShape{IsCircle: isCircle, A: a, B: b},
			Initial:      toXMLState(o.InitialState),
		}
		for _, s := range o.Prediction.StateList {
			xo.Trajectory = append(xo.Trajectory, toXMLState(s))
		}
		doc.Obstacles = append(doc.Obstacles, xo)
	}
	if problem != nil {
		doc.PlanningProblem = &xmlPlanningProblem{
			ID:                problem.ID,
			Initial:           toXMLState(problem.Initial),
			GoalTimeStepStart: problem.Goal.TimeStep.Start,
			GoalTimeStepEnd:   problem.Goal.TimeStep.End,
			GoalLength:        problem.Goal.Position.Length,
			GoalWidth:         problem.Goal.Position.Width,
			GoalCenterX:       problem.Goal.Position.Center.X,
			GoalCenterY:       problem.Goal.Position.Center.Y,
			GoalOrientation:   problem.Goal.Position.Orientation,
		}
	}
	return doc
}

func (doc xmlDocument) toScenario() (*commonroad.Scenario, *commonroad.PlanningProblem) {
	scenario := commonroad.NewScenario(doc.DtCr, commonroad.Metadata{
		Author: doc.Author, Affiliation: doc.Affiliation, Source: doc.Source,
	})
	for _, xl := range doc.Lanelets {
		lane := &commonroad.Lanelet{ID: xl.ID, Predecessors: xl.Predecessors, Successors: xl.Successors}
		for i := range xl.LeftBoundX {
			lane.LeftBound = append(lane.LeftBound, r3Vector(xl.LeftBoundX[i], xl.LeftBoundY[i]))
		}
		for i := range xl.RightBoundX {
			lane.RightBound = append(lane.RightBound, r3Vector(xl.RightBoundX[i], xl.RightBoundY[i]))
		}
		scenario.Lanelets.AddLanelet(lane)
	}
	for _, xo := range doc.Obstacles {
		var shape commonroad.Shape
		if xo.Shape.IsCircle {
			shape = commonroad.CircleShape{Radius: xo.Shape.A}
		} else {
			shape = commonroad.RectangleShape{Length: xo.Shape.A, Width: xo.Shape.B}
		}
		trajectory := commonroad.Trajectory{StateList: make([]commonroad.State, 0, len(xo.Trajectory))}
		for _, xs := range xo.Trajectory {
			trajectory.StateList = append(trajectory.StateList, xs.toState())
		}
		if len(trajectory.StateList) > 0 {
			trajectory.InitialTimeStep = trajectory.StateList[0].TimeStep
			trajectory.FinalTimeStep = trajectory.StateList[len(trajectory.StateList)-1].TimeStep
		}
		_ = scenario.AddObstacle(&commonroad.DynamicObstacle{
			ID:           xo.ID,
			ObstacleType: commonroad.ObstacleType(xo.ObstacleType),
			Shape:        shape,
			InitialState: xo.Initial.toState(),
			Prediction:   trajectory,
		})
	}

	var problem *commonroad.PlanningProblem
	if doc.PlanningProblem != nil {
		p := doc.PlanningProblem
		problem = &commonroad.PlanningProblem{
			ID:      p.ID,
			Initial: p.Initial.toState(),
			Goal: commonroad.GoalState{
				TimeStep: commonroad.IntInterval{Start: p.GoalTimeStepStart, End: p.GoalTimeStepEnd},
				Position: commonroad.GoalPosition{
					Length: p.GoalLength, Width: p.GoalWidth,
					Center:      r3Vector(p.GoalCenterX, p.GoalCenterY),
					Orientation: p.GoalOrientation,
				},
			},
		}
	}
	return scenario, problem
}

// Write renders scenario/problem to path as CommonRoad-flavored XML, the
// final artifact §6's CLI surface produces for TARGET.xml.
func Write(path string, scenario *commonroad.Scenario, problem *commonroad.PlanningProblem) error {
	doc := toDocument(scenario, problem)
	payload, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("crio: marshaling scenario: %w", err)
	}
	payload = append([]byte(xml.Header), payload...)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("crio: writing %s: %w", path, err)
	}
	return nil
}

// Read loads a scenario (and its planning problem, if present) previously
// written by Write, or by anything honoring the same schema -- the
// `--cr-files` inputs `merge` mode reads.
func Read(path string) (*commonroad.Scenario, *commonroad.PlanningProblem, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("crio: reading %s: %w", path, err)
	}
	var doc xmlDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, nil, fmt.Errorf("crio: parsing %s: %w", path, err)
	}
	scenario, problem := doc.toScenario()
	return scenario, problem, nil
}

// Merge folds every obstacle and lanelet from src into dst, renumbering
// src's obstacle ids (and any lanelet ids they reference) through dst's own
// id generator so the merged result keeps pairwise-distinct obstacle ids
// (invariant §8.2) without colliding with dst's existing lanelets.
func Merge(dst *commonroad.Scenario, src *commonroad.Scenario) {
	laneletOffset := 0
	for id := range dst.Lanelets.Lanelets {
		if id >= laneletOffset {
			laneletOffset = id + 1
		}
	}
	for id, lane := range src.Lanelets.Lanelets {
		shifted := *lane
		shifted.ID = id + laneletOffset
		shifted.Predecessors = shiftIDs(lane.Predecessors, laneletOffset)
		shifted.Successors = shiftIDs(lane.Successors, laneletOffset)
		dst.Lanelets.AddLanelet(&shifted)
	}
	for _, o := range src.Obstacles() {
		merged := *o
		merged.ID = dst.NextObstacleID()
		for {
			if _, taken := dst.Obstacle(merged.ID); !taken {
				break
			}
			merged.ID = dst.NextObstacleID()
		}
		_ = dst.AddObstacle(&merged)
	}
}

func shiftIDs(ids []int, offset int) []int {
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = id + offset
	}
	return out
}
