package e

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf_SurvivesWrapping(t *testing.T) {
	err := Wrap("CategoryUseCase.Get", Wrap("inner", NotFound(MsgCategoryNotFound)))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, MsgCategoryNotFound, Message(err))
}

func TestKindOf_UntaggedIsStorage(t *testing.T) {
	err := fmt.Errorf("connection reset")

	assert.Equal(t, KindStorage, KindOf(err))
	assert.Equal(t, ErrInternalServerError.Error(), Message(err))
	assert.False(t, IsKind(nil, KindStorage))
}

func TestStorage_HidesCause(t *testing.T) {
	cause := errors.New("pq: relation does not exist")
	err := Storage(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrInternalServerError.Error(), Message(err))
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestError_IsMatchesKind(t *testing.T) {
	err := Wrap("op", DuplicateName())

	assert.ErrorIs(t, err, &Error{Kind: KindDuplicateName})
	assert.NotErrorIs(t, err, &Error{Kind: KindValidation})
	assert.ErrorIs(t, err, DuplicateName())
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "category_in_use", KindCategoryInUse.String())
	assert.Equal(t, "storage", KindStorage.String())
}
