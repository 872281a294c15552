package models

type QuestionStatistics struct {
	QuestionID               int     `json:"questionId"`
	SubmissionCount          int     `json:"submissionCount"`          // all submissions
	CorrectSubmissionCount   int     `json:"correctSubmissionCount"`   // submissions graded as correct
	FirstAttemptCorrectCount int     `json:"firstAttemptCorrectCount"` // correct on the first attempt
	CorrectRate              float64 `json:"correctRate"`              // CorrectSubmissionCount / SubmissionCount
}
