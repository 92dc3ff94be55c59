package interact

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var colours = []Choice{{Value: "red"}, {Value: "green", Description: "the green one"}, {Value: "blue"}}

func TestChoice_Label(t *testing.T) {
	assert.Equal(t, "red", colours[0].Label())
	assert.Equal(t, "green - the green one", colours[1].Label())
}

func TestScripted_AnswersInOrder(t *testing.T) {
	s := NewScripted("green", "red,blue", "hello", "", "true")

	one, err := s.SelectOne("pick", colours, "")
	require.NoError(t, err)
	assert.Equal(t, "green", one)

	many, err := s.SelectMany("pick many", colours, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"red", "blue"}, many)

	text, err := s.InputText("say", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	path, err := s.InputPath("where", ".devcontainer", nil)
	require.NoError(t, err)
	assert.Equal(t, ".devcontainer", path)

	ok, err := s.Confirm("sure?", false)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, []string{"pick", "pick many", "say", "where", "sure?"}, s.Asked)
}

func TestScripted_Interrupt(t *testing.T) {
	s := NewScripted(Interrupt)
	_, err := s.SelectOne("pick", colours, "")
	assert.True(t, errors.Is(err, ErrInterrupted))
}

func TestScripted_RejectsUnknownChoice(t *testing.T) {
	s := NewScripted("purple")
	_, err := s.SelectOne("pick", colours, "")
	assert.Error(t, err)
}

func TestScripted_RunsValidator(t *testing.T) {
	s := NewScripted("")
	_, err := s.InputText("name", "", func(v string) error {
		if v == "" {
			return errors.New("empty")
		}
		return nil
	})
	assert.Error(t, err)
}

func TestScripted_Exhausted(t *testing.T) {
	s := NewScripted()
	_, err := s.Confirm("sure?", true)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrInterrupted))
}
