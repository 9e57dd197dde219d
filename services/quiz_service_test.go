package services

import (
	"context"
	"errors"
	"testing"

	"github.com/finedmentor/fined_mentor/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type fakeQuizRepo struct {
	quizzes map[uuid.UUID]*models.Quiz
	saves   int
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[uuid.UUID]*models.Quiz{}}
}

func (r *fakeQuizRepo) Save(quiz *models.Quiz) error {
	if quiz.ID == uuid.Nil {
		quiz.ID = uuid.New()
	}
	copied := *quiz
	r.quizzes[quiz.ID] = &copied
	r.saves++
	return nil
}

func (r *fakeQuizRepo) FindByID(id uuid.UUID) (*models.Quiz, error) {
	quiz, found := r.quizzes[id]
	if !found {
		return nil, ErrQuizNotFound
	}
	copied := *quiz
	return &copied, nil
}

func (r *fakeQuizRepo) FindLatestBySessionID(sessionID uuid.UUID) (*models.Quiz, error) {
	var latest *models.Quiz
	for _, quiz := range r.quizzes {
		if quiz.ChatSessionID != sessionID {
			continue
		}
		if latest == nil || quiz.CreatedAt.After(latest.CreatedAt) {
			latest = quiz
		}
	}
	if latest == nil {
		return nil, ErrQuizNotFound
	}
	copied := *latest
	return &copied, nil
}

type fakeQuizStateRepo struct {
	states map[uuid.UUID]*models.QuizState
}

func newFakeQuizStateRepo() *fakeQuizStateRepo {
	return &fakeQuizStateRepo{states: map[uuid.UUID]*models.QuizState{}}
}

func (r *fakeQuizStateRepo) Save(state *models.QuizState) error {
	if state.ID == uuid.Nil {
		state.ID = uuid.New()
	}
	copied := *state
	r.states[state.ID] = &copied
	return nil
}

func (r *fakeQuizStateRepo) FindByID(id uuid.UUID) (*models.QuizState, error) {
	state, found := r.states[id]
	if !found {
		return nil, ErrQuizStateNotFound
	}
	copied := *state
	return &copied, nil
}

func (r *fakeQuizStateRepo) FindLatestBySessionID(sessionID uuid.UUID) (*models.QuizState, error) {
	var latest *models.QuizState
	for _, state := range r.states {
		if state.ChatSessionID != sessionID {
			continue
		}
		if latest == nil || state.CreatedAt.After(latest.CreatedAt) {
			latest = state
		}
	}
	if latest == nil {
		return nil, ErrQuizStateNotFound
	}
	copied := *latest
	return &copied, nil
}

type stubGenerator struct {
	quiz *models.Quiz
	err  error
}

func (g *stubGenerator) GenerateQuiz(ctx context.Context, topic string) (*models.Quiz, error) {
	if g.err != nil {
		return nil, g.err
	}
	copied := *g.quiz
	return &copied, nil
}

func sampleQuestions() []models.QuizQuestion {
	return []models.QuizQuestion{
		{
			Question:      "What is compound interest?",
			Type:          models.QuestionTypeMultipleChoice,
			Options:       []string{"Interest on interest earned", "Simple interest rate", "Bank fee structure", "Investment loss"},
			CorrectAnswer: "Interest on interest earned",
			Explanation:   "Compound interest grows your money faster.",
		},
		{
			Question:      "Diversification means putting all your money in one investment.",
			Type:          models.QuestionTypeTrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "False",
			Explanation:   "Diversification spreads risk across assets.",
		},
		{
			Question:      "A mortgage is a loan secured by property.",
			Type:          models.QuestionTypeTrueFalse,
			Options:       []string{"True", "False"},
			CorrectAnswer: "True",
			Explanation:   "The property is collateral for the loan.",
		},
	}
}

func sampleQuiz(sessionID uuid.UUID) *models.Quiz {
	return &models.Quiz{
		Topic:         "Investing basics",
		Questions:     datatypes.NewJSONType(sampleQuestions()),
		ChatSessionID: sessionID,
	}
}

func newQuizFixture(t *testing.T) (*QuizService, *fakeQuizRepo, *fakeQuizStateRepo, *models.Quiz) {
	t.Helper()

	quizzes := newFakeQuizRepo()
	states := newFakeQuizStateRepo()
	sessionID := uuid.New()

	quiz := sampleQuiz(sessionID)
	require.NoError(t, quizzes.Save(quiz))

	svc := NewQuizService(quizzes, states, &stubGenerator{quiz: sampleQuiz(sessionID)})
	return svc, quizzes, states, quiz
}

func TestGenerateQuizPersistsValidQuiz(t *testing.T) {
	quizzes := newFakeQuizRepo()
	states := newFakeQuizStateRepo()
	sessionID := uuid.New()
	svc := NewQuizService(quizzes, states, &stubGenerator{quiz: sampleQuiz(uuid.Nil)})

	quiz, err := svc.GenerateQuiz(context.Background(), "Investing basics", sessionID)
	require.NoError(t, err)

	assert.Equal(t, sessionID, quiz.ChatSessionID)
	assert.False(t, quiz.CreatedAt.IsZero())
	assert.Equal(t, 1, quizzes.saves)

	// Every validated question keeps its correct answer among its options.
	for _, q := range quiz.Questions.Data() {
		assert.True(t, answerAmongOptions(q.CorrectAnswer, q.Options), "question %q", q.Question)
	}
}

func TestGenerateQuizRejectsInvalidStructure(t *testing.T) {
	broken := sampleQuiz(uuid.Nil)
	questions := broken.Questions.Data()
	questions[0].CorrectAnswer = "Not an option"
	broken.Questions = datatypes.NewJSONType(questions)

	quizzes := newFakeQuizRepo()
	svc := NewQuizService(quizzes, newFakeQuizStateRepo(), &stubGenerator{quiz: broken})

	_, err := svc.GenerateQuiz(context.Background(), "Investing basics", uuid.New())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, quizzes.saves, "invalid quiz must never be persisted")
}

func TestGenerateQuizPropagatesGeneratorErrors(t *testing.T) {
	quizzes := newFakeQuizRepo()
	svc := NewQuizService(quizzes, newFakeQuizStateRepo(), &stubGenerator{
		err: NewValidationError("topic is not finance related"),
	})

	_, err := svc.GenerateQuiz(context.Background(), "best pizza toppings", uuid.New())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Zero(t, quizzes.saves)
}

func TestStartQuizCreatesFreshState(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)

	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	assert.Equal(t, quiz.ID, state.QuizID)
	assert.Equal(t, 0, state.CurrentQuestionIndex)
	assert.Equal(t, 0, state.Score)
	assert.False(t, state.IsFinished)
	assert.Empty(t, state.Answers())
	assert.Empty(t, state.Submitted())

	// Every start creates a new run; callers rely on a fresh id.
	second, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)
	assert.NotEqual(t, state.ID, second.ID)
}

func TestStartQuizUnknownQuiz(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t)

	_, err := svc.StartQuiz(uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestSubmitAnswerScoresFirstSubmissionOnly(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	// Correct answer scores on first submission.
	updated, err := svc.SubmitAnswer(state.ID, 0, "interest on interest earned")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Score)
	assert.True(t, updated.Submitted()[0])

	// Revising an already-submitted index never moves the incremental score.
	updated, err = svc.SubmitAnswer(state.ID, 0, "Bank fee structure")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Score)
	assert.Equal(t, "Bank fee structure", updated.Answers()[0])
}

func TestSubmitAnswerWrongAnswerKeepsScore(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	// TRUE_FALSE question at index 1 has correctAnswer "False".
	updated, err := svc.SubmitAnswer(state.ID, 1, "True")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Score)
	assert.True(t, updated.Submitted()[1])
}

func TestSubmitAnswerIndexBounds(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	for _, index := range []int{-1, 3, 99} {
		_, err := svc.SubmitAnswer(state.ID, index, "True")
		var validationErr *ValidationError
		assert.ErrorAs(t, err, &validationErr, "index %d", index)
	}
}

func TestSubmitAnswerRejectsMalformedTrueFalse(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.ID, 1, "maybe")
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestSubmitAnswerAfterFinishLeavesStateUntouched(t *testing.T) {
	svc, _, states, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.ID, 0, "Interest on interest earned")
	require.NoError(t, err)
	finished, err := svc.FinishQuiz(state.ID)
	require.NoError(t, err)
	require.True(t, finished.IsFinished)

	_, err = svc.SubmitAnswer(state.ID, 1, "False")
	assert.ErrorIs(t, err, ErrQuizFinished)

	after, err := states.FindByID(state.ID)
	require.NoError(t, err)
	assert.Equal(t, finished.Score, after.Score)
	assert.Equal(t, finished.Answers(), after.Answers())
}

func TestFinishQuizRecomputesScoreFromScratch(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	// First submission wrong: incremental score stays 0 but the index is burnt.
	_, err = svc.SubmitAnswer(state.ID, 0, "Investment loss")
	require.NoError(t, err)
	// Revision to the correct answer is not reflected incrementally.
	updated, err := svc.SubmitAnswer(state.ID, 0, "Interest on interest earned")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Score)

	_, err = svc.SubmitAnswer(state.ID, 2, "true")
	require.NoError(t, err)

	// Finalization reconciles the revision: index 0 and 2 correct, 1 unanswered.
	finished, err := svc.FinishQuiz(state.ID)
	require.NoError(t, err)
	assert.True(t, finished.IsFinished)
	assert.Equal(t, 2, finished.Score)
}

func TestFinishQuizIdempotentScore(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	_, err = svc.SubmitAnswer(state.ID, 1, "no")
	require.NoError(t, err)

	first, err := svc.FinishQuiz(state.ID)
	require.NoError(t, err)
	second, err := svc.FinishQuiz(state.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Score, second.Score)
	assert.Equal(t, 1, first.Score)
}

func TestFinishQuizScenarioWrongTrueFalse(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)
	require.Equal(t, 0, state.Score)
	require.False(t, state.IsFinished)
	require.Empty(t, state.Answers())

	// TRUE_FALSE question whose correctAnswer is "False", answered "True".
	updated, err := svc.SubmitAnswer(state.ID, 1, "True")
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Score)
	assert.True(t, updated.Submitted()[1])

	finished, err := svc.FinishQuiz(state.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, finished.Score)
	assert.True(t, finished.IsFinished)
}

func TestUpdateCurrentQuestionIndexIsAdvisory(t *testing.T) {
	svc, _, _, quiz := newQuizFixture(t)
	state, err := svc.StartQuiz(quiz.ID, quiz.ChatSessionID)
	require.NoError(t, err)

	updated, err := svc.UpdateCurrentQuestionIndex(state.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.CurrentQuestionIndex)
	assert.Equal(t, 0, updated.Score)
}

func TestGetQuizBySessionIDMostRecentWins(t *testing.T) {
	svc, quizzes, _, quiz := newQuizFixture(t)

	newer := sampleQuiz(quiz.ChatSessionID)
	newer.Topic = "ETF basics"
	newer.CreatedAt = quiz.CreatedAt.Add(1)
	require.NoError(t, quizzes.Save(newer))

	found, err := svc.GetQuizBySessionID(quiz.ChatSessionID)
	require.NoError(t, err)
	assert.Equal(t, "ETF basics", found.Topic)

	_, err = svc.GetQuizBySessionID(uuid.New())
	assert.ErrorIs(t, err, ErrQuizNotFound)
}

func TestGetQuizStateNotFound(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t)

	_, err := svc.GetQuizState(uuid.New())
	assert.ErrorIs(t, err, ErrQuizStateNotFound)

	_, err = svc.GetQuizStateBySessionID(uuid.New())
	assert.ErrorIs(t, err, ErrQuizStateNotFound)
}

func TestSubmitAnswerUnknownState(t *testing.T) {
	svc, _, _, _ := newQuizFixture(t)

	_, err := svc.SubmitAnswer(uuid.New(), 0, "True")
	assert.ErrorIs(t, err, ErrQuizStateNotFound)
}

func TestValidateQuestionEdgeCases(t *testing.T) {
	base := sampleQuestions()[0]

	tests := []struct {
		name   string
		mutate func(q *models.QuizQuestion)
		valid  bool
	}{
		{"valid multiple choice", func(q *models.QuizQuestion) {}, true},
		{"blank question text", func(q *models.QuizQuestion) { q.Question = "   " }, false},
		{"blank correct answer", func(q *models.QuizQuestion) { q.CorrectAnswer = "" }, false},
		{"single option", func(q *models.QuizQuestion) { q.Options = []string{"only"} }, false},
		{"answer not among options", func(q *models.QuizQuestion) { q.CorrectAnswer = "other" }, false},
		{"case-insensitive option match", func(q *models.QuizQuestion) { q.CorrectAnswer = "INTEREST ON INTEREST EARNED" }, true},
		{"unknown type", func(q *models.QuizQuestion) { q.Type = "ESSAY" }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := base
			q.Options = append([]string(nil), base.Options...)
			tc.mutate(&q)

			err := validateQuestion(q, 0)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateQuestionTrueFalse(t *testing.T) {
	q := models.QuizQuestion{
		Question:      "Stocks always go up.",
		Type:          models.QuestionTypeTrueFalse,
		Options:       []string{"True", "False"},
		CorrectAnswer: "false",
	}
	assert.NoError(t, validateQuestion(q, 0))

	q.CorrectAnswer = "Faux"
	assert.Error(t, validateQuestion(q, 0), "correct answer must be literal true/false")

	q.CorrectAnswer = "True"
	q.Options = []string{"Vrai", "Faux"}
	assert.Error(t, validateQuestion(q, 0), "correct answer must match an option")
}

func TestValidateQuizRequiresQuestions(t *testing.T) {
	quiz := &models.Quiz{Questions: datatypes.NewJSONType([]models.QuizQuestion{})}
	assert.Error(t, validateQuiz(quiz))
}

func TestNormalizeTrueFalseAnswer(t *testing.T) {
	for _, in := range []string{"T", "true", "TRUE", " t ", "yes", "YES", "y", "1", "totally"} {
		assert.Equal(t, "true", NormalizeTrueFalseAnswer(in), "input %q", in)
	}
	for _, in := range []string{"f", "No", "FALSE", "n", "0", "faux"} {
		assert.Equal(t, "false", NormalizeTrueFalseAnswer(in), "input %q", in)
	}
	// Unrecognized values pass through lowercased and trimmed.
	assert.Equal(t, "maybe", NormalizeTrueFalseAnswer(" Maybe "))
}

func TestIsAnswerCorrect(t *testing.T) {
	assert.True(t, isAnswerCorrect(" interest on interest earned ", "Interest on interest earned", models.QuestionTypeMultipleChoice))
	assert.False(t, isAnswerCorrect("Bank fee structure", "Interest on interest earned", models.QuestionTypeMultipleChoice))
	assert.True(t, isAnswerCorrect("yes", "True", models.QuestionTypeTrueFalse))
	assert.True(t, isAnswerCorrect("0", "False", models.QuestionTypeTrueFalse))
	assert.False(t, isAnswerCorrect("", "False", models.QuestionTypeTrueFalse))
	// Matching unrecognized strings compare equal after pass-through.
	assert.True(t, isAnswerCorrect("peut-être", "Peut-être", models.QuestionTypeTrueFalse))
}

func TestFinishQuizUnknownQuizFails(t *testing.T) {
	states := newFakeQuizStateRepo()
	state := &models.QuizState{QuizID: uuid.New()}
	state.SetAnswers(map[int]string{})
	state.SetSubmitted(map[int]bool{})
	require.NoError(t, states.Save(state))

	svc := NewQuizService(newFakeQuizRepo(), states, &stubGenerator{err: errors.New("unused")})
	_, err := svc.FinishQuiz(state.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
