package dqn

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/aunum/log"
	"github.com/gammazero/deque"
	"gorgonia.org/tensor"

	"github.com/deepqlab/cartpole-dqn/pkg/envs"
)

// Event is a single transition the agent experienced.
type Event struct {
	// Outcome of taking the action.
	*envs.Outcome

	// State by which the action was taken.
	State *tensor.Dense

	// Action that was taken.
	Action int
}

// NewEvent returns a new event.
func NewEvent(state *tensor.Dense, action int, outcome *envs.Outcome) *Event {
	return &Event{
		Outcome: outcome,
		State:   state,
		Action:  action,
	}
}

// Print the event.
func (e *Event) Print() {
	log.Infof("event --> \n state: %v \n action: %v \n reward: %v \n  nextState: %v\n\n", e.State, e.Action, e.Reward, e.Observation)
}

// Memory for the dqn agent: a capacity-bounded replay buffer with uniform
// random sampling.
type Memory struct {
	*deque.Deque[*Event]

	capacity int
}

// NewMemory returns a new Memory store holding at most capacity events.
func NewMemory(capacity int) *Memory {
	return &Memory{
		Deque:    deque.New[*Event](),
		capacity: capacity,
	}
}

// Remember an event, evicting the oldest one once the buffer is full.
func (m *Memory) Remember(event *Event) {
	m.PushFront(event)
	if m.Len() > m.capacity {
		m.PopBack()
	}
}

// Capacity of the memory.
func (m *Memory) Capacity() int {
	return m.capacity
}

// Sample from the memory with the given batch size.
func (m *Memory) Sample(batchsize int) ([]*Event, error) {
	if m.Len() < batchsize {
		return nil, fmt.Errorf("queue size %d is less than batch size %d", m.Len(), batchsize)
	}
	events := []*Event{}
	rand.Seed(time.Now().UnixNano())
	for i, value := range rand.Perm(m.Len()) {
		if i >= batchsize {
			break
		}
		events = append(events, m.At(value))
	}
	return events, nil
}
