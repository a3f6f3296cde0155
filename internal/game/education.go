package game

import (
	"fmt"

	"tycoon/internal/content"
)

// EnrollEducation starts a program. Expensive programs take a deposit and
// open a student loan tagged with the program id for the remainder.
func EnrollEducation(s GameState, cat *content.Catalog, educationID string) (GameState, error) {
	prog, ok := cat.Education(educationID)
	if !ok {
		return s, ErrUnknownEducation
	}
	if s.Education.CurrentlyEnrolled != nil {
		return s, ErrAlreadyEnrolled
	}
	if s.hasDegree(educationID) {
		return s, ErrAlreadyHaveDegree
	}
	cost := prog.Cost.Int64()
	deposit := enrollmentDeposit(cost)
	if s.Cash < deposit {
		return s, fmt.Errorf("%w: deposit %d, cash %d", ErrInsufficientCash, deposit, s.Cash)
	}

	next := s.Clone()
	next.Cash -= deposit
	if financed := cost - deposit; financed > 0 {
		next.Liabilities = append(next.Liabilities, Liability{
			ID:                next.newID("liab"),
			Name:              prog.Name + " Loan",
			Type:              LiabilityStudentLoan,
			Balance:           financed,
			InterestRate:      studentLoanRate,
			MonthlyPayment:    annuityPayment(financed, studentLoanRate, studentLoanTermMonths),
			TermMonths:        studentLoanTermMonths,
			SourceEducationID: prog.ID,
		})
	}
	next.Education.CurrentlyEnrolled = &Enrollment{EducationID: prog.ID, MonthsRemaining: prog.Months}
	next.addStats(Stats{Stress: 5, Energy: -5})
	next.logEvent("education", "Enrolled in "+prog.Name)
	return next, nil
}

// advanceEducation ticks the current program and returns the name of a
// program that finished this month.
func (s *GameState) advanceEducation(cat *content.Catalog) string {
	enr := s.Education.CurrentlyEnrolled
	if enr == nil {
		return ""
	}
	enr.MonthsRemaining--
	if enr.MonthsRemaining > 0 {
		return ""
	}
	s.Education.CurrentlyEnrolled = nil
	prog, ok := cat.Education(enr.EducationID)
	if !ok {
		return ""
	}
	s.Education.Degrees = append(s.Education.Degrees, Degree{
		EducationID:    prog.ID,
		Name:           prog.Name,
		Category:       prog.Category,
		Tier:           prog.Tier,
		CompletedMonth: s.Month,
	})
	s.addStats(Stats{FinancialIQ: prog.FinancialIQ, Happiness: 5, Stress: -5})
	if prog.RelevantTo(s.Career.Path) && prog.SalaryMultiplier > 1 {
		s.Career.Salary = scaleCents(s.Career.Salary, prog.SalaryMultiplier)
	}
	s.logEvent("education", "Completed "+prog.Name)
	return prog.Name
}
