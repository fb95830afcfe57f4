package dqn

import "github.com/aunum/gold/pkg/v1/common"

// DecaySchedule multiplies epsilon by a decay factor every learn step,
// never dropping below a floor.
type DecaySchedule struct {
	initial float32
	decay   float32
	min     float32
	value   float32
}

// NewDecaySchedule returns a new decay schedule starting at initial and
// multiplying by decay on every value, floored at min.
func NewDecaySchedule(initial, decay, min float32) *DecaySchedule {
	return &DecaySchedule{
		initial: initial,
		decay:   decay,
		min:     min,
		value:   initial,
	}
}

// Initial value of the schedule.
func (s *DecaySchedule) Initial() float32 {
	return s.initial
}

// Value returns the current value and decays the schedule.
func (s *DecaySchedule) Value() float32 {
	s.value *= s.decay
	if s.value < s.min {
		s.value = s.min
	}
	return s.value
}

// ConstantSchedule always yields the same value.
type ConstantSchedule struct {
	value float32
}

// NewConstantSchedule returns a new constant schedule.
func NewConstantSchedule(value float32) *ConstantSchedule {
	return &ConstantSchedule{value: value}
}

// Initial value of the schedule.
func (s *ConstantSchedule) Initial() float32 {
	return s.value
}

// Value of the schedule.
func (s *ConstantSchedule) Value() float32 {
	return s.value
}

var (
	_ common.Schedule = &DecaySchedule{}
	_ common.Schedule = &ConstantSchedule{}
)
