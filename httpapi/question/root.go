// questionservice provides the question authoring, rendering and grading API.
package questionservice

import (
	"github.com/algebra-practice/backend/httpapi"
	"github.com/algebra-practice/backend/internal/events"
	"github.com/algebra-practice/backend/internal/render"
	"github.com/algebra-practice/backend/internal/store"
	"github.com/algebra-practice/backend/internal/submission"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("algebra.httpapi.question")

type QuestionService struct {
	store             *store.Store
	renderer          *render.Renderer
	submissionService *submission.SubmissionService
	eventService      *events.EventService
}

func NewQuestionService(st *store.Store, renderer *render.Renderer, submissionService *submission.SubmissionService, eventService *events.EventService) *QuestionService {
	return &QuestionService{
		store:             st,
		renderer:          renderer,
		submissionService: submissionService,
		eventService:      eventService,
	}
}

func (s *QuestionService) Register(router gin.IRouter) {
	questions := router.Group("/questions")

	questions.GET("", s.ListQuestions)
	questions.POST("", s.CreateQuestion)
	questions.GET("/:id", s.GetQuestion)
	questions.PUT("/:id", s.UpdateQuestion)
	questions.DELETE("/:id", s.DeleteQuestion)
	questions.GET("/:id/render", s.RenderQuestion)
	questions.POST("/:id/submissions", s.SubmitAnswer)
	questions.GET("/:id/submissions", s.ListSubmissions)
	questions.GET("/:id/statistics", s.GetStatistics)
}

var _ httpapi.Service = (*QuestionService)(nil)
