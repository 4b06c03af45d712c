package service

import (
	"context"
	"errors"
	"fmt"

	"quiz_backend/internal/config"
	"quiz_backend/internal/model"
	"quiz_backend/internal/repository"
	"quiz_backend/internal/util"
	"quiz_backend/pkg/logger"
	"quiz_backend/pkg/monitoring"
	"quiz_backend/pkg/tracing"

	"github.com/jinzhu/copier"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxConflictRetries bounds how often a lost compare-and-swap is re-evaluated.
const maxConflictRetries = 3

type QuizService struct {
	DB           *gorm.DB
	SubjectRepo  *repository.SubjectRepository
	QuestionRepo *repository.QuestionRepository
	ProgressRepo *repository.ProgressRepository
	Storage      *StorageService
	Guard        SubmissionGuard
	Cfg          *config.QuizConfig
}

func NewQuizService(
	db *gorm.DB,
	subjectRepo *repository.SubjectRepository,
	questionRepo *repository.QuestionRepository,
	progressRepo *repository.ProgressRepository,
	storage *StorageService,
	guard SubmissionGuard,
	cfg *config.QuizConfig,
) *QuizService {
	if guard == nil {
		guard = NoopGuard{}
	}
	return &QuizService{
		DB:           db,
		SubjectRepo:  subjectRepo,
		QuestionRepo: questionRepo,
		ProgressRepo: progressRepo,
		Storage:      storage,
		Guard:        guard,
		Cfg:          cfg,
	}
}

func (s *QuizService) ListSubjects(ctx context.Context) ([]SubjectView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.ListSubjects")
	defer span.End()

	subjects, err := s.SubjectRepo.List(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	counts, err := s.SubjectRepo.QuestionCounts(ctx)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("count questions: %w", err)
	}

	views := make([]SubjectView, 0, len(subjects))
	for i := range subjects {
		v, err := s.subjectView(&subjects[i], counts[subjects[i].ID])
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// StartSubject resolves the entry point of a subject: its lowest-id question.
func (s *QuizService) StartSubject(ctx context.Context, subjectID uint) (*StartView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.StartSubject")
	defer span.End()
	span.SetAttributes(attribute.Int64("subject.id", int64(subjectID)))

	subject, err := s.SubjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	total, err := s.QuestionRepo.CountBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	first, err := s.QuestionRepo.FindFirst(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	sv, err := s.subjectView(subject, total)
	if err != nil {
		return nil, err
	}
	view := &StartView{Subject: sv}
	if first != nil {
		view.HasQuestions = true
		view.FirstQuestionID = first.ID
		view.NextURL = QuestionPath(subjectID, first.ID)
	}
	return view, nil
}

// QuestionDetail loads a question for a user, creating their progress row on
// first visit, and runs any hint request or answer submission against it.
func (s *QuizService) QuestionDetail(ctx context.Context, userID *uint, subjectID, questionID uint, in AnswerInput) (*QuestionDetailView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.QuestionDetail")
	defer span.End()
	user := model.UserKey(userID)
	span.SetAttributes(
		attribute.Int64("subject.id", int64(subjectID)),
		attribute.Int64("question.id", int64(questionID)),
		attribute.Bool("quiz.submitted", in.Submitted),
	)

	subject, err := s.SubjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	question, err := s.QuestionRepo.FindInSubject(ctx, subjectID, questionID)
	if err != nil {
		return nil, err
	}
	options, err := s.QuestionRepo.ListOptions(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("list options: %w", err)
	}
	if err := s.checkQuestion(span, question, options); err != nil {
		return nil, err
	}

	if in.Submitted {
		release, err := s.Guard.Acquire(ctx, user, question.ID)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	var out *Outcome
	for attempt := 1; ; attempt++ {
		out, options, err = s.evaluate(ctx, user, question, in)
		if err == nil || !errors.Is(err, util.ErrProgressConflict) || attempt >= maxConflictRetries {
			break
		}
		logger.Log.Debug("Progress changed during evaluation, retrying",
			zap.Uint("user_id", user),
			zap.Uint("question_id", question.ID),
			zap.Int("attempt", attempt),
		)
	}
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	monitoring.RecordAnswer(out.Label)
	span.SetAttributes(attribute.String("quiz.outcome", out.Label))

	return s.detailView(ctx, subject, question, options, out)
}

func (s *QuizService) checkQuestion(span trace.Span, question *model.Question, options []model.Option) error {
	if _, err := CorrectOption(options); err != nil {
		logger.Log.Warn("Data integrity: question rejected",
			zap.Uint("subject_id", question.SubjectID),
			zap.Uint("question_id", question.ID),
			zap.Int("options", len(options)),
			zap.Error(err),
		)
		monitoring.RecordInvalidQuestion()
		tracing.RecordError(span, err)
		return err
	}
	return nil
}

// evaluate reads the options and explanation in the same transaction as the
// progress row, so one evaluation never mixes two versions of the question.
func (s *QuizService) evaluate(ctx context.Context, user uint, question *model.Question, in AnswerInput) (*Outcome, []model.Option, error) {
	var (
		out     *Outcome
		options []model.Option
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := s.ProgressRepo.WithTx(tx)
		questionRepo := s.QuestionRepo.WithTx(tx)

		var err error
		options, err = questionRepo.ListOptions(ctx, question.ID)
		if err != nil {
			return fmt.Errorf("list options: %w", err)
		}
		explanation, err := questionRepo.FindExplanation(ctx, question.ID)
		if err != nil {
			return fmt.Errorf("load explanation: %w", err)
		}

		progress, err := progressRepo.GetOrCreate(ctx, user, question.SubjectID, question.ID)
		if err != nil {
			return err
		}

		out, err = EvaluateAnswer(*progress, *question, options, explanation, in, s.Cfg.DefaultHint)
		if err != nil {
			return err
		}

		if out.MarkHint {
			if err := progressRepo.MarkHintUsed(ctx, progress); err != nil {
				return fmt.Errorf("mark hint: %w", err)
			}
		}
		if out.Update != nil {
			if err := progressRepo.RecordAnswer(ctx, progress, *out.Update); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, options, nil
}

func (s *QuizService) detailView(ctx context.Context, subject *model.Subject, question *model.Question,
	options []model.Option, out *Outcome) (*QuestionDetailView, error) {

	total, err := s.QuestionRepo.CountBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	position, err := s.QuestionRepo.Position(ctx, subject.ID, question.ID)
	if err != nil {
		return nil, err
	}
	next, err := s.QuestionRepo.FindNext(ctx, subject.ID, question.ID)
	if err != nil {
		return nil, err
	}

	sv, err := s.subjectView(subject, total)
	if err != nil {
		return nil, err
	}
	view := &QuestionDetailView{
		Subject:          sv,
		State:            out.State.String(),
		Feedback:         out.Feedback,
		Hint:             out.Hint,
		ShowHintOption:   out.ShowHintOption,
		HighlightCorrect: out.HighlightCorrect,
		HighlightWrong:   out.HighlightWrong,
		WrongOptionIDs:   out.WrongOptionIDs,
		Locked:           out.Locked,
		Attempts:         out.Attempts,
		MaxAttempts:      model.MaxAttempts,
		HintUsed:         out.HintUsed,
		Advance:          out.Advance,
		QuestionNumber:   position,
		TotalQuestions:   total,
	}
	if view.WrongOptionIDs == nil {
		view.WrongOptionIDs = []uint{}
	}

	if err := copier.Copy(&view.Question, question); err != nil {
		return nil, fmt.Errorf("map question %d: %w", question.ID, err)
	}
	view.Question.ImageContent = s.Storage.URL(question.ImageContent)

	view.Options = make([]OptionView, 0, len(options))
	for i := range options {
		var ov OptionView
		if err := copier.Copy(&ov, &options[i]); err != nil {
			return nil, fmt.Errorf("map option %d: %w", options[i].ID, err)
		}
		ov.ImageContent = s.Storage.URL(options[i].ImageContent)
		ov.Selected = out.SelectedOptionID != nil && *out.SelectedOptionID == options[i].ID
		view.Options = append(view.Options, ov)
	}

	if out.CorrectOption != nil {
		id := out.CorrectOption.ID
		view.CorrectOptionID = &id
	}
	if out.Explanation != nil {
		view.Explanation = &ExplanationView{
			TextContent:  out.Explanation.TextContent,
			ImageContent: s.Storage.URL(out.Explanation.ImageContent),
		}
	}

	if next != nil {
		id := next.ID
		view.NextQuestionID = &id
		view.NextURL = QuestionPath(subject.ID, next.ID)
	} else {
		view.NextURL = ResultsPath(subject.ID)
		view.NextIsFinish = true
	}
	return view, nil
}

func (s *QuizService) Results(ctx context.Context, userID *uint, subjectID uint) (*ResultsView, error) {
	ctx, span := tracing.Tracer.Start(ctx, "QuizService.Results")
	defer span.End()
	span.SetAttributes(attribute.Int64("subject.id", int64(subjectID)))

	subject, err := s.SubjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	total, err := s.QuestionRepo.CountBySubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	rows, err := s.ProgressRepo.ListForUserSubject(ctx, model.UserKey(userID), subjectID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("list progress: %w", err)
	}

	sv, err := s.subjectView(subject, total)
	if err != nil {
		return nil, err
	}
	return &ResultsView{
		Subject:       sv,
		ResultSummary: AggregateResults(rows, total),
	}, nil
}

func (s *QuizService) subjectView(subject *model.Subject, questionCount int64) (SubjectView, error) {
	var v SubjectView
	if err := copier.Copy(&v, subject); err != nil {
		return v, fmt.Errorf("map subject: %w", err)
	}
	v.LogoImage = s.Storage.URL(subject.LogoImage)
	v.QuestionCount = questionCount
	return v, nil
}
