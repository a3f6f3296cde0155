package game

import (
	"fmt"

	"tycoon/internal/content"
)

type CourseAttempt struct {
	CourseID       string `json:"courseId"`
	Score          int    `json:"score"`
	Total          int    `json:"total"`
	Passed         bool   `json:"passed"`
	RewardGranted  bool   `json:"rewardGranted"`
	PenaltyApplied bool   `json:"penaltyApplied"`
	Demoted        bool   `json:"demoted"`
	FeeFinanced    int64  `json:"feeFinanced"`
	FailedAttempts int    `json:"failedAttempts"`
}

// StartCourseQuiz opens a fresh attempt. Question order and option order are
// reshuffled every attempt; each option keeps its original index.
func StartCourseQuiz(s GameState, cat *content.Catalog, courseID string, rng RNG) (GameState, error) {
	course, ok := cat.Course(courseID)
	if !ok {
		return s, ErrUnknownCourse
	}
	if s.ActiveQuiz != nil {
		return s, ErrQuizActive
	}
	quiz := &Quiz{CourseID: course.ID}
	for _, qi := range shuffle(rng, len(course.Questions)) {
		src := course.Questions[qi]
		order := shuffle(rng, len(src.Options))
		qq := QuizQuestion{
			QuestionIndex: qi,
			Prompt:        src.Prompt,
			Options:       make([]string, len(order)),
			SourceIndex:   order,
		}
		for pos, orig := range order {
			qq.Options[pos] = src.Options[orig]
		}
		quiz.Questions = append(quiz.Questions, qq)
	}
	next := s.Clone()
	next.NextID++
	next.ActiveQuiz = quiz
	return next, nil
}

// SubmitQuizAnswer answers the current question with a displayed option
// index. After the last question the attempt is resolved and returned.
func SubmitQuizAnswer(s GameState, cat *content.Catalog, option int) (GameState, *CourseAttempt, error) {
	if s.ActiveQuiz == nil || s.ActiveQuiz.Current >= len(s.ActiveQuiz.Questions) {
		return s, nil, ErrNoActiveQuiz
	}
	course, ok := cat.Course(s.ActiveQuiz.CourseID)
	if !ok {
		return s, nil, ErrUnknownCourse
	}
	qq := s.ActiveQuiz.Questions[s.ActiveQuiz.Current]
	if option < 0 || option >= len(qq.SourceIndex) {
		return s, nil, ErrInvalidOption
	}

	next := s.Clone()
	quiz := next.ActiveQuiz
	if qq.SourceIndex[option] == course.Questions[qq.QuestionIndex].Correct {
		quiz.Score++
	}
	quiz.Current++
	if quiz.Current < len(quiz.Questions) {
		return next, nil, nil
	}
	next.ActiveQuiz = nil
	resolved, attempt := ResolveCourseAttempt(next, cat, course.ID, quiz.Score)
	return resolved, &attempt, nil
}

// ResolveCourseAttempt scores a finished attempt.
//
// A pass always certifies and grants the reward only the first time. A
// failure before certification counts toward the fail cap; reaching it
// applies the penalty and resets the count. Failing after certification is
// practice and changes nothing but the best score.
func ResolveCourseAttempt(s GameState, cat *content.Catalog, courseID string, score int) (GameState, CourseAttempt) {
	course, ok := cat.Course(courseID)
	if !ok {
		return s, CourseAttempt{CourseID: courseID}
	}
	next := s.Clone()
	rec := next.course(courseID)
	rec.BestScore = max(rec.BestScore, score)
	at := CourseAttempt{CourseID: courseID, Score: score, Total: len(course.Questions)}

	switch {
	case score >= course.RequiredCorrect():
		at.Passed = true
		rec.Certified = true
		if !rec.RewardClaimed {
			rec.RewardClaimed = true
			at.RewardGranted = true
			next.grantCourseReward(course.Reward)
			next.logEvent("course", "Certified in "+course.Title)
		}
	case !rec.Certified:
		rec.FailedAttempts++
		if rec.FailedAttempts >= course.FailureCap() {
			at.PenaltyApplied = true
			at.Demoted, at.FeeFinanced = next.applyCoursePenalty(cat, course)
			rec.FailedAttempts = 0
		}
	}
	at.FailedAttempts = rec.FailedAttempts
	next.setCourse(courseID, rec)
	return next, at
}

func (s *GameState) grantCourseReward(r content.CourseReward) {
	s.Cash += r.Cash.Int64()
	s.addStats(statsFrom(r.Stats))
	s.Modifiers.CareerXPBoost += r.CareerXPBoost
	s.Modifiers.DealDiscountPct = clampFloat(s.Modifiers.DealDiscountPct+r.DealDiscountPct, 0, maxDealDiscountPct)
}

// applyCoursePenalty takes the cash penalty (never below zero cash) or, for
// demoting courses, drops the career to level 1 and charges the fee. The
// part of the fee cash cannot cover becomes a liability.
func (s *GameState) applyCoursePenalty(cat *content.Catalog, c content.Course) (bool, int64) {
	s.chargeFloored(c.Penalty.Cash.Int64())
	if !c.Penalty.Demote {
		s.logEvent("course", fmt.Sprintf("Failed %s too many times", c.Title))
		return false, 0
	}
	s.demote(cat)
	fee := c.Penalty.Fee.Int64()
	paid := s.chargeFloored(fee)
	financed := fee - paid
	if financed > 0 {
		s.Liabilities = append(s.Liabilities, Liability{
			ID:             s.newID("liab"),
			Name:           c.Title + " Penalty Fee",
			Type:           LiabilityFee,
			Balance:        financed,
			MonthlyPayment: annuityPayment(financed, 0, penaltyFeeTermMonths),
			TermMonths:     penaltyFeeTermMonths,
		})
	}
	s.logEvent("course", fmt.Sprintf("Failed %s too many times and was demoted", c.Title))
	return true, financed
}
