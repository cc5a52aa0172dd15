package crossway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// LaneID identifies one of the four approach lanes of the intersection
type LaneID int

const (
	// NoLane means "none", e.g. no emergency designated
	NoLane LaneID = iota
	Lane1
	Lane2
	Lane3
	Lane4
)

// NumLanes is the fixed number of lanes at the intersection
const NumLanes = 4

// AllLanes lists the lanes in their original order
var AllLanes = []LaneID{Lane1, Lane2, Lane3, Lane4}

// Valid reports whether l is one of the four concrete lanes
func (l LaneID) Valid() bool {
	return l >= Lane1 && l <= Lane4
}

func (l LaneID) String() string {
	if !l.Valid() {
		return "None"
	}
	return fmt.Sprintf("Lane %d", int(l))
}

// ParseLaneID parses "Lane 2", "lane2", "L2" or "2". Anything it does not
// recognise, including "None", yields NoLane.
func ParseLaneID(s string) LaneID {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "lane")
	s = strings.TrimPrefix(s, "l")
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return NoLane
	}
	id := LaneID(n)
	if !id.Valid() {
		return NoLane
	}
	return id
}

// LightColor is the signal shown to a lane
type LightColor string

const (
	Red    LightColor = "red"
	Yellow LightColor = "yellow"
	Green  LightColor = "green"
)

// Lights holds the signal of every lane, indexed by LaneID-1
type Lights [NumLanes]LightColor

// AllRed returns lights with every lane stopped
func AllRed() Lights {
	return Lights{Red, Red, Red, Red}
}

// Get returns the color of lane, or the empty color for NoLane
func (ls Lights) Get(lane LaneID) LightColor {
	if !lane.Valid() {
		return ""
	}
	return ls[lane-1]
}

// Set returns a copy of ls with lane set to color
func (ls Lights) Set(lane LaneID, color LightColor) Lights {
	if lane.Valid() {
		ls[lane-1] = color
	}
	return ls
}

// With returns every lane currently showing color, in lane order
func (ls Lights) With(color LightColor) []LaneID {
	return lo.Filter(AllLanes, func(lane LaneID, _ int) bool {
		return ls.Get(lane) == color
	})
}

func (ls Lights) String() string {
	parts := lo.Map(AllLanes, func(lane LaneID, _ int) string {
		return fmt.Sprintf("%s=%s", lane, ls.Get(lane))
	})
	return strings.Join(parts, " ")
}
