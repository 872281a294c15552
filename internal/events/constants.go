package events

type EventType string

const (
	EventTypeSubmitAnswer EventType = "submit_answer"

	EventTypeQuestionSaved   EventType = "question_saved"
	EventTypeQuestionDeleted EventType = "question_deleted"
)
