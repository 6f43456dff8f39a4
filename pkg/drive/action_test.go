package drive

import (
	"errors"
	"testing"

	"github.com/teslashibe/go-rover/pkg/actuator"
)

func TestParseAction(t *testing.T) {
	cases := []struct {
		in   string
		want Action
	}{
		{"F", ActionForward},
		{"f", ActionForward},
		{"B", ActionBackward},
		{"b", ActionBackward},
		{"L", ActionLeft},
		{"l", ActionLeft},
		{"R", ActionRight},
		{"r", ActionRight},
	}
	for _, c := range cases {
		got, err := ParseAction(c.in)
		if err != nil {
			t.Errorf("ParseAction(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAction(%q): got %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseAction_Rejects(t *testing.T) {
	for _, in := range []string{"", "X", "FB", "forward", "1", ":"} {
		if _, err := ParseAction(in); !errors.Is(err, ErrUnknownAction) {
			t.Errorf("ParseAction(%q): expected ErrUnknownAction, got %v", in, err)
		}
	}
}

func TestActionCommands(t *testing.T) {
	cases := []struct {
		action Action
		want   [2]MotorCommand
	}{
		{ActionForward, [2]MotorCommand{
			{actuator.SideLeft, 150, actuator.DirForward},
			{actuator.SideRight, 150, actuator.DirForward},
		}},
		{ActionBackward, [2]MotorCommand{
			{actuator.SideLeft, 150, actuator.DirReverse},
			{actuator.SideRight, 150, actuator.DirReverse},
		}},
		{ActionLeft, [2]MotorCommand{
			{actuator.SideLeft, 0, actuator.DirForward},
			{actuator.SideRight, 150, actuator.DirForward},
		}},
		{ActionRight, [2]MotorCommand{
			{actuator.SideLeft, 150, actuator.DirForward},
			{actuator.SideRight, 0, actuator.DirForward},
		}},
	}
	for _, c := range cases {
		got, err := c.action.Commands(150)
		if err != nil {
			t.Errorf("%s: %v", c.action, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %+v, want %+v", c.action, got, c.want)
		}
	}
}

func TestActionCommands_Unknown(t *testing.T) {
	rec := actuator.NewRecorder()

	_, err := Action("spin").Commands(150)
	if !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}

	// The defensive path never touches the motors
	if err := applyAction(rec, Action("spin"), 150); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("applyAction: expected ErrUnknownAction, got %v", err)
	}
	if len(rec.Calls()) != 0 {
		t.Errorf("unknown action drove the motors: %+v", rec.Calls())
	}
}
