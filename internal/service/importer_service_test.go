package service

import (
	"strings"
	"testing"

	"tachyon_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importHeader = "subject,chapter,topic,difficulty,question_text,option_a,option_b,option_c,option_d,correct_answer,hint,solution,source"

func TestParseQuestionCSV(t *testing.T) {
	csvData := strings.Join([]string{
		importHeader,
		`Physics,Waves,Sound,2,What is the speed of sound in air?,330 m/s,343 m/s,360 m/s,300 m/s,B,Think room temperature,At 20C sound travels at 343 m/s,NCERT`,
		`Biology,Cell Biology,Mitochondria,1,Which organelle makes ATP?,Nucleus,Mitochondria,Ribosome,Golgi,B,,,`,
		`Mathematics,Algebra,Quadratics,3,Solve x^2 - 5x + 6 = 0,,,,,"x=2, x=3",Factorise,(x-2)(x-3)=0,`,
	}, "\n")

	questions, report, err := ParseQuestionCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 3, report.Imported)
	assert.Equal(t, 0, report.Skipped)
	assert.Empty(t, report.Errors)
	require.Len(t, questions, 3)

	first := questions[0]
	assert.Equal(t, model.Physics, first.Subject)
	assert.Equal(t, "Waves", first.Chapter)
	assert.Equal(t, 2, first.Difficulty)
	assert.Equal(t, "B", first.CorrectAnswer)
	assert.True(t, first.IsActive)
	require.Len(t, first.GetOptions(), 4)
	assert.Equal(t, "343 m/s", first.GetOptions()[1].Text)

	// Free-text question: no options, answer matched as text.
	third := questions[2]
	assert.False(t, third.HasOptions())
	assert.Equal(t, "x=2, x=3", third.CorrectAnswer)
}

func TestParseQuestionCSVSkipsInvalidRows(t *testing.T) {
	csvData := strings.Join([]string{
		importHeader,
		`Astrology,Waves,Sound,2,Bad subject,,,,,A,,,`,
		`Physics,Waves,Sound,9,Difficulty out of range,,,,,A,,,`,
		`Physics,,Sound,2,Missing chapter,,,,,A,,,`,
		`Physics,Waves,Sound,2,Answer key not among options,Only option,,,,C,,,`,
		`Physics,Waves,Sound,2,Valid row,Yes,No,,,A,,,`,
	}, "\n")

	questions, report, err := ParseQuestionCSV(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 1, report.Imported)
	assert.Equal(t, 4, report.Skipped)
	require.Len(t, questions, 1)
	assert.Equal(t, "Valid row", questions[0].QuestionText)

	// Row numbers are 1-based with the header as row 1.
	require.Len(t, report.Errors, 4)
	assert.Equal(t, 2, report.Errors[0].Row)
	assert.Contains(t, report.Errors[0].Message, "Astrology")
	assert.Equal(t, 3, report.Errors[1].Row)
	assert.Contains(t, report.Errors[1].Message, "difficulty")
	assert.Equal(t, 5, report.Errors[3].Row)
	assert.Contains(t, report.Errors[3].Message, "option keys")
}

func TestParseQuestionCSVHeaderValidation(t *testing.T) {
	t.Run("wrong column count", func(t *testing.T) {
		_, _, err := ParseQuestionCSV(strings.NewReader("subject,chapter\n"))
		require.Error(t, err)
	})

	t.Run("wrong column name", func(t *testing.T) {
		bad := strings.Replace(importHeader, "difficulty", "level", 1)
		_, _, err := ParseQuestionCSV(strings.NewReader(bad + "\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "difficulty")
	})

	t.Run("header casing is tolerated", func(t *testing.T) {
		upper := strings.ToUpper(importHeader)
		_, report, err := ParseQuestionCSV(strings.NewReader(upper + "\n"))
		require.NoError(t, err)
		assert.Equal(t, 0, report.TotalRows)
	})
}
