package controller

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"quiz_backend/internal/service"
	"quiz_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// ListSubjects godoc
// @Summary List subjects
// @Tags quiz
// @Produce json
// @Success 200 {object} util.Response{data=[]service.SubjectView}
// @Router / [get]
func (c *QuizController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.QuizService.ListSubjects(ctx.Request.Context())
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"subjects": subjects})
}

// StartSubject godoc
// @Summary Enter a subject
// @Description Redirects to the first question, or reports that the subject has none.
// @Tags quiz
// @Produce json
// @Param subject_id path int true "subject id"
// @Success 200 {object} util.Response{data=service.StartView} "no questions"
// @Success 302 "first question"
// @Failure 404 {object} util.Response
// @Router /subject/{subject_id}/ [get]
func (c *QuizController) StartSubject(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subject_id")
	if !ok {
		return
	}

	view, err := c.QuizService.StartSubject(ctx.Request.Context(), subjectID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	if view.HasQuestions {
		ctx.Redirect(http.StatusFound, view.NextURL)
		return
	}

	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: "This subject has no questions yet",
		Data:    view,
	})
}

// QuestionDetail godoc
// @Summary Show or answer a question
// @Description GET shows the question, POST submits the option in `answer`. Add `hint` to reveal the hint.
// @Tags quiz
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param subject_id path int true "subject id"
// @Param question_id path int true "question id"
// @Param hint query string false "reveal the hint"
// @Param answer formData int false "selected option id"
// @Success 200 {object} util.Response{data=service.QuestionDetailView}
// @Failure 400 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Failure 429 {object} util.Response
// @Router /subject/{subject_id}/question/{question_id}/ [get]
// @Router /subject/{subject_id}/question/{question_id}/ [post]
func (c *QuizController) QuestionDetail(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subject_id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}

	_, revealHint := ctx.GetQuery("hint")
	in := service.AnswerInput{RevealHint: revealHint}

	if ctx.Request.Method == http.MethodPost {
		selected, err := readAnswer(ctx)
		if err != nil {
			util.BadRequest(ctx, "answer must be an option id")
			return
		}
		in.Submitted = true
		in.SelectedOptionID = selected
	}

	view, err := c.QuizService.QuestionDetail(ctx.Request.Context(), util.CurrentUserID(ctx), subjectID, questionID, in)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Results godoc
// @Summary Subject results
// @Tags quiz
// @Produce json
// @Param subject_id path int true "subject id"
// @Success 200 {object} util.Response{data=service.ResultsView}
// @Failure 401 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /subject/{subject_id}/results/ [get]
func (c *QuizController) Results(ctx *gin.Context) {
	subjectID, ok := pathID(ctx, "subject_id")
	if !ok {
		return
	}

	view, err := c.QuizService.Results(ctx.Request.Context(), util.CurrentUserID(ctx), subjectID)
	if err != nil {
		c.handleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

func (c *QuizController) handleError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrSubjectNotFound):
		util.NotFoundWithMessage(ctx, "Subject not found")
	case errors.Is(err, util.ErrQuestionNotFound), errors.Is(err, util.ErrInvalidQuestion):
		util.NotFoundWithMessage(ctx, "Question not found")
	case errors.Is(err, util.ErrOptionNotFound):
		util.NotFoundWithMessage(ctx, "Option not found")
	case errors.Is(err, util.ErrProgressConflict):
		util.Conflict(ctx, "Progress changed, please retry")
	case errors.Is(err, util.ErrDuplicateSubmission):
		util.TooManyRequests(ctx, "Answer already being submitted")
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID writes a 404 and reports false when the parameter is not an id.
func pathID(ctx *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil || v == 0 {
		util.NotFound(ctx)
		return 0, false
	}
	return uint(v), true
}

// readAnswer reads the selected option from a form or JSON body. A missing or
// empty answer is not an error.
func readAnswer(ctx *gin.Context) (*uint, error) {
	if ctx.ContentType() != binding.MIMEJSON {
		return util.ParseOptionalUint(ctx.PostForm("answer"))
	}

	var body struct {
		Answer interface{} `json:"answer"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	switch v := body.Answer.(type) {
	case nil:
		return nil, nil
	case string:
		return util.ParseOptionalUint(v)
	case float64:
		if v < 0 || v != math.Trunc(v) || v > math.MaxUint32 {
			return nil, fmt.Errorf("invalid option id %v", v)
		}
		id := uint(v)
		return &id, nil
	default:
		return nil, fmt.Errorf("invalid option id %v", v)
	}
}
