package canopy

import (
	"encoding/json"
	"fmt"
	"strings"
)

// syntheticPointerEvent is a single queued pointer event in screen space.
// It goes through the same screen to world conversion as real input.
type syntheticPointerEvent struct {
	screen Vec2
	kind   EventType
	button MouseButton
}

// scriptStep is a single action in a JSON input script.
type scriptStep struct {
	Action string  `json:"action"`
	Button string  `json:"button,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type inputScriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// InputScript replays synthetic pointer input against a canvas, one event
// per Step. Events can be queued directly with Move, Press, Release, Click
// and Drag, or loaded from a JSON script:
//
//	{"steps": [
//	  {"action": "move", "x": 400, "y": 300},
//	  {"action": "click", "x": 400, "y": 300, "button": "right"},
//	  {"action": "wait", "frames": 10},
//	  {"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 10, "frames": 8}
//	]}
type InputScript struct {
	queue     []syntheticPointerEvent
	steps     []scriptStep
	cursor    int
	waitCount int
}

// NewInputScript returns an empty script for queuing events directly.
func NewInputScript() *InputScript {
	return &InputScript{}
}

// LoadInputScript parses a JSON input script.
func LoadInputScript(jsonData []byte) (*InputScript, error) {
	var f inputScriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("canopy: parse input script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("canopy: parse input script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "move", "press", "release", "click", "drag", "wait":
		default:
			return nil, fmt.Errorf("canopy: parse input script: step %d: unknown action %q", i, st.Action)
		}
		if _, err := parseButton(st.Button); err != nil {
			return nil, fmt.Errorf("canopy: parse input script: step %d: %w", i, err)
		}
	}
	return &InputScript{steps: f.Steps}, nil
}

func parseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return MouseButtonLeft, nil
	case "middle":
		return MouseButtonMiddle, nil
	case "right":
		return MouseButtonRight, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// Move queues a pointer move to a screen position.
func (s *InputScript) Move(p Vec2) {
	s.queue = append(s.queue, syntheticPointerEvent{screen: p, kind: EventPointerMove})
}

// Press queues a button press at a screen position.
func (s *InputScript) Press(p Vec2, b MouseButton) {
	s.queue = append(s.queue, syntheticPointerEvent{screen: p, kind: EventPointerDown, button: b})
}

// Release queues a button release at a screen position.
func (s *InputScript) Release(p Vec2, b MouseButton) {
	s.queue = append(s.queue, syntheticPointerEvent{screen: p, kind: EventPointerUp, button: b})
}

// Click queues a press followed by a release. Consumes two steps.
func (s *InputScript) Click(p Vec2, b MouseButton) {
	s.Press(p, b)
	s.Release(p, b)
}

// Drag queues a left-button drag: a press at from, moves linearly
// interpolated over frames-2 intermediate steps, and a release at to.
// frames below 2 is treated as 2.
func (s *InputScript) Drag(from, to Vec2, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.Press(from, MouseButtonLeft)
	n := frames - 2
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n+1)
		s.Move(from.Add(to.Sub(from).Mul(t)))
	}
	s.Release(to, MouseButtonLeft)
}

// Done reports whether every queued event and script step has run.
func (s *InputScript) Done() bool {
	return len(s.queue) == 0 && s.waitCount == 0 && s.cursor >= len(s.steps)
}

// Step advances the script by one frame and feeds at most one event to c.
// It reports whether an event was delivered; callers typically skip real
// input for that frame.
func (s *InputScript) Step(c *Canvas) bool {
	if len(s.queue) == 0 {
		if s.waitCount > 0 {
			s.waitCount--
			return false
		}
		if s.cursor < len(s.steps) {
			s.expand(s.steps[s.cursor])
			s.cursor++
		}
	}
	if len(s.queue) == 0 {
		return false
	}
	evt := s.queue[0]
	copy(s.queue, s.queue[1:])
	s.queue = s.queue[:len(s.queue)-1]

	switch evt.kind {
	case EventPointerMove:
		c.PointerMove(evt.screen)
	case EventPointerDown:
		c.PointerDown(evt.screen, evt.button)
	case EventPointerUp:
		c.PointerUp(evt.screen, evt.button)
	}
	return true
}

func (s *InputScript) expand(st scriptStep) {
	b, _ := parseButton(st.Button)
	p := Vec2{st.X, st.Y}
	switch st.Action {
	case "move":
		s.Move(p)
	case "press":
		s.Press(p, b)
	case "release":
		s.Release(p, b)
	case "click":
		s.Click(p, b)
	case "drag":
		s.Drag(Vec2{st.FromX, st.FromY}, Vec2{st.ToX, st.ToY}, st.Frames)
	case "wait":
		if st.Frames > 0 {
			s.waitCount = st.Frames - 1 // this frame counts as one
		}
	}
}
