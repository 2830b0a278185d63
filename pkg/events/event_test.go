package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsCarryTheirTypeCodes(t *testing.T) {
	assert.Equal(t, TypeThreadSwitched, NewThreadSwitched("u1", "t1").EventType())
	assert.Equal(t, TypeThreadCreated, NewThreadCreated("u1", "t1").EventType())
	assert.Equal(t, TypeVoiceDispatch, NewVoiceDispatch("u1", "room-1").EventType())
}

func TestSubjectMapsOntoEventsStream(t *testing.T) {
	assert.Equal(t, "events.THREAD_SWITCHED", Subject(TypeThreadSwitched))
	assert.Equal(t, "events.VOICE_DISPATCH", Subject(TypeVoiceDispatch))
}
