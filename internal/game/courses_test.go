package game

import (
	"testing"

	"github.com/stretchr/testify/require"

	"tycoon/internal/content"
)

// answerAll answers every question of the active quiz, correctly when
// correct is true and wrongly otherwise.
func answerAll(t *testing.T, st GameState, cat *content.Catalog, correct bool) (GameState, *CourseAttempt) {
	t.Helper()
	course, ok := cat.Course(st.ActiveQuiz.CourseID)
	require.True(t, ok)
	var attempt *CourseAttempt
	for st.ActiveQuiz != nil {
		qq := st.ActiveQuiz.Questions[st.ActiveQuiz.Current]
		want := course.Questions[qq.QuestionIndex].Correct
		pick := -1
		for pos, orig := range qq.SourceIndex {
			if (orig == want) == correct {
				pick = pos
				break
			}
		}
		require.GreaterOrEqual(t, pick, 0)
		var err error
		st, attempt, err = SubmitQuizAnswer(st, cat, pick)
		require.NoError(t, err)
	}
	require.NotNil(t, attempt)
	return st, attempt
}

func TestQuizShufflesAndRemaps(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)

	st, err := StartCourseQuiz(st, cat, "eq", NewRNG(9))
	require.NoError(t, err)
	require.NotNil(t, st.ActiveQuiz)
	course, _ := cat.Course("eq")
	require.Len(t, st.ActiveQuiz.Questions, len(course.Questions))
	for _, qq := range st.ActiveQuiz.Questions {
		src := course.Questions[qq.QuestionIndex]
		require.Equal(t, src.Prompt, qq.Prompt)
		for pos, orig := range qq.SourceIndex {
			require.Equal(t, src.Options[orig], qq.Options[pos])
		}
	}

	_, err = StartCourseQuiz(st, cat, "eq", NewRNG(9))
	require.ErrorIs(t, err, ErrQuizActive)

	cash := st.Cash
	st, attempt := answerAll(t, st, cat, true)
	require.True(t, attempt.Passed)
	require.True(t, attempt.RewardGranted)
	require.Equal(t, len(course.Questions), attempt.Score)
	require.Equal(t, cash+50_000, st.Cash)
	require.InDelta(t, 0.1, st.Modifiers.CareerXPBoost, 1e-9)
	require.True(t, st.Courses["eq"].Certified)

	// a second pass certifies again without paying again
	st, err = StartCourseQuiz(st, cat, "eq", NewRNG(10))
	require.NoError(t, err)
	cash = st.Cash
	st, attempt = answerAll(t, st, cat, true)
	require.True(t, attempt.Passed)
	require.False(t, attempt.RewardGranted)
	require.Equal(t, cash, st.Cash)

	// failing after certification is practice
	st, err = StartCourseQuiz(st, cat, "eq", NewRNG(11))
	require.NoError(t, err)
	st, attempt = answerAll(t, st, cat, false)
	require.False(t, attempt.Passed)
	require.False(t, attempt.PenaltyApplied)
	require.Equal(t, 0, st.Courses["eq"].FailedAttempts)
	require.Equal(t, cash, st.Cash)
}

func TestSubmitWithoutQuiz(t *testing.T) {
	st := newDefaultGame(t, "graduate", "normal", 1)
	_, _, err := SubmitQuizAnswer(st, content.Default(), 0)
	require.ErrorIs(t, err, ErrNoActiveQuiz)

	_, err = StartCourseQuiz(st, content.Default(), "juggling", NewRNG(1))
	require.ErrorIs(t, err, ErrUnknownCourse)
}

func TestFailCapAppliesCashPenalty(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.setCourse("compound_interest", CourseRecord{FailedAttempts: 2})
	cash := st.Cash

	next, at := ResolveCourseAttempt(st, cat, "compound_interest", 1)
	require.False(t, at.Passed)
	require.True(t, at.PenaltyApplied)
	require.False(t, at.Demoted)
	require.Equal(t, cash-10_000, next.Cash)
	require.Equal(t, 0, next.Courses["compound_interest"].FailedAttempts)
	require.Equal(t, 1, next.Courses["compound_interest"].BestScore)

	// the penalty never pushes cash negative
	broke := st
	broke.Cash = 3_000
	next, _ = ResolveCourseAttempt(broke, cat, "compound_interest", 0)
	require.Equal(t, int64(0), next.Cash)
}

func TestFailCapDemotesAndFinancesFee(t *testing.T) {
	cat := content.Default()
	st := newDefaultGame(t, "graduate", "normal", 1)
	st.Career.Level = 3
	st.Career.Title = "Senior Developer"
	st.Career.Salary = 800_000
	st.Career.Experience = 5
	st.Cash = 50_000
	debts := len(st.Liabilities)

	var at CourseAttempt
	for i := 0; i < 3; i++ {
		st, at = ResolveCourseAttempt(st, cat, "negotiations", 0)
	}
	require.True(t, at.PenaltyApplied)
	require.True(t, at.Demoted)
	require.Equal(t, 1, st.Career.Level)
	require.Equal(t, "Junior Developer", st.Career.Title)
	require.Equal(t, int64(450_000), st.Career.Salary)
	require.Equal(t, 0.0, st.Career.Experience)
	require.Equal(t, int64(0), st.Cash)
	require.Equal(t, int64(100_000), at.FeeFinanced)

	require.Len(t, st.Liabilities, debts+1)
	fee := st.Liabilities[len(st.Liabilities)-1]
	require.Equal(t, LiabilityFee, fee.Type)
	require.Equal(t, int64(100_000), fee.Balance)
	require.Equal(t, penaltyFeeTermMonths, fee.TermMonths)
	checkInvariants(t, st)
}

func TestDemotionSalaryUsesRelevantDegrees(t *testing.T) {
	cat := content.Default()
	cases := []struct {
		name    string
		degrees []Degree
		want    int64
	}{
		{name: "no degree", want: 450_000},
		{name: "relevant bootcamp", degrees: []Degree{{EducationID: "coding_bootcamp", Category: "tech", Tier: 1}}, want: 486_000},
		{name: "best relevant wins", degrees: []Degree{
			{EducationID: "coding_bootcamp", Category: "tech", Tier: 1},
			{EducationID: "cs_degree", Category: "tech", Tier: 3},
		}, want: 517_500},
		{name: "irrelevant license", degrees: []Degree{{EducationID: "electrician_license", Category: "trade", Tier: 1}}, want: 450_000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := newDefaultGame(t, "graduate", "normal", 1)
			st.Education.Degrees = tc.degrees
			st.Career.Level = 3
			st.Career.Salary = 900_000
			st.Cash = 500_000
			var at CourseAttempt
			for i := 0; i < 3; i++ {
				st, at = ResolveCourseAttempt(st, cat, "negotiations", 0)
			}
			require.True(t, at.Demoted)
			require.Equal(t, 1, st.Career.Level)
			require.Equal(t, "Junior Developer", st.Career.Title)
			require.Equal(t, tc.want, st.Career.Salary)
		})
	}
}
