package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionListValidate(t *testing.T) {
	tests := []struct {
		name    string
		options OptionList
		wantErr string
	}{
		{
			name:    "valid list",
			options: OptionList{{Key: "A", Text: "one"}, {Key: "B", Text: "two"}},
		},
		{
			name:    "empty key rejected",
			options: OptionList{{Key: " ", Text: "one"}},
			wantErr: "option key",
		},
		{
			name:    "empty text rejected",
			options: OptionList{{Key: "A", Text: "  "}},
			wantErr: "option text",
		},
		{
			name:    "duplicate key rejected case-insensitively",
			options: OptionList{{Key: "A", Text: "one"}, {Key: "a", Text: "two"}},
			wantErr: "duplicate option key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.options.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestQuestionOptionsRoundTrip(t *testing.T) {
	q := &Question{}
	options := OptionList{{Key: "A", Text: "343 m/s"}, {Key: "B", Text: "330 m/s"}}

	require.NoError(t, q.SetOptions(options))
	assert.True(t, q.HasOptions())

	got := q.GetOptions()
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Key, "choice order survives storage")
	assert.Equal(t, "330 m/s", got[1].Text)

	require.NoError(t, q.SetOptions(nil))
	assert.False(t, q.HasOptions())
	assert.Nil(t, q.GetOptions())
}

func TestQuestionSetOptionsRejectsInvalid(t *testing.T) {
	q := &Question{}
	err := q.SetOptions(OptionList{{Key: "", Text: "one"}})
	require.Error(t, err)
	assert.Empty(t, q.Options)
}
