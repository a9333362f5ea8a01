package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"

	"gorm.io/gorm"
)

// 各活动的声望分值
const (
	PointsQuestionUpvoted   = 10
	PointsQuestionDownvoted = -2
	PointsAnswerUpvoted     = 10
	PointsAnswerDownvoted   = -2
	PointsAnswerAccepted    = 15
)

type QuestionService struct {
	repo   *mysql.QuestionRepository
	repSvc *ReputationService
}

func NewQuestionService(db *gorm.DB, repSvc *ReputationService) *QuestionService {
	return &QuestionService{
		repo:   &mysql.QuestionRepository{DB: db},
		repSvc: repSvc,
	}
}

func (s *QuestionService) Ask(userID uint64, title, content string) (*model.Question, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title required", pkg.ErrInvalidArgument)
	}
	q := &model.Question{
		AuthorID: userID,
		Title:    title,
		Content:  content,
	}
	if err := s.repo.CreateQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) List(page, size int) ([]model.Question, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 50 {
		size = 20
	}
	return s.repo.ListQuestions((page-1)*size, size)
}

func (s *QuestionService) Get(id uint64) (*model.Question, []model.Answer, error) {
	q, err := s.repo.FindQuestionByID(id)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.repo.ListAnswers(id)
	if err != nil {
		return nil, nil, err
	}
	return q, answers, nil
}

func (s *QuestionService) Answer(userID, questionID uint64, content string) (*model.Answer, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content required", pkg.ErrInvalidArgument)
	}
	if _, err := s.repo.FindQuestionByID(questionID); err != nil {
		return nil, err
	}
	a := &model.Answer{
		QuestionID: questionID,
		AuthorID:   userID,
		Content:    content,
	}
	if err := s.repo.CreateAnswer(a); err != nil {
		return nil, err
	}
	return a, nil
}

// VoteQuestion 一人一票；首次生效时给提问者记声望
func (s *QuestionService) VoteQuestion(ctx context.Context, voterID, questionID uint64, value int) (bool, error) {
	if value != 1 && value != -1 {
		return false, fmt.Errorf("%w: vote value must be 1 or -1", pkg.ErrInvalidArgument)
	}
	q, err := s.repo.FindQuestionByID(questionID)
	if err != nil {
		return false, err
	}
	if q.AuthorID == voterID {
		return false, fmt.Errorf("%w: cannot vote own question", pkg.ErrInvalidArgument)
	}
	changed, err := s.repo.Vote(ctx, &model.Vote{
		UserID:     voterID,
		TargetType: model.VoteTargetQuestion,
		TargetID:   questionID,
		Value:      value,
	})
	if err != nil || !changed {
		return changed, err
	}
	action, points := model.ActionQuestionUpvoted, int64(PointsQuestionUpvoted)
	if value < 0 {
		action, points = model.ActionQuestionDownvoted, int64(PointsQuestionDownvoted)
	}
	if _, err := s.repSvc.RecordEvent(ctx, q.AuthorID, points, action, ""); err != nil {
		return true, err
	}
	return true, nil
}

// VoteAnswer 同 VoteQuestion，目标换成回答
func (s *QuestionService) VoteAnswer(ctx context.Context, voterID, answerID uint64, value int) (bool, error) {
	if value != 1 && value != -1 {
		return false, fmt.Errorf("%w: vote value must be 1 or -1", pkg.ErrInvalidArgument)
	}
	a, err := s.repo.FindAnswerByID(answerID)
	if err != nil {
		return false, err
	}
	if a.AuthorID == voterID {
		return false, fmt.Errorf("%w: cannot vote own answer", pkg.ErrInvalidArgument)
	}
	changed, err := s.repo.Vote(ctx, &model.Vote{
		UserID:     voterID,
		TargetType: model.VoteTargetAnswer,
		TargetID:   answerID,
		Value:      value,
	})
	if err != nil || !changed {
		return changed, err
	}
	action, points := model.ActionAnswerUpvoted, int64(PointsAnswerUpvoted)
	if value < 0 {
		action, points = model.ActionAnswerDownvoted, int64(PointsAnswerDownvoted)
	}
	if _, err := s.repSvc.RecordEvent(ctx, a.AuthorID, points, action, ""); err != nil {
		return true, err
	}
	return true, nil
}

// Accept 只有提问者能采纳；false->true 只跳一次，重复调用幂等
func (s *QuestionService) Accept(ctx context.Context, actingUserID, answerID uint64) (bool, error) {
	a, err := s.repo.FindAnswerByID(answerID)
	if err != nil {
		return false, err
	}
	q, err := s.repo.FindQuestionByID(a.QuestionID)
	if err != nil {
		return false, err
	}
	if q.AuthorID != actingUserID {
		return false, fmt.Errorf("%w: only the question author can accept", pkg.ErrForbidden)
	}
	changed, err := s.repo.AcceptAnswer(ctx, answerID)
	if err != nil || !changed {
		return changed, err
	}
	if _, err := s.repSvc.RecordEvent(ctx, a.AuthorID, PointsAnswerAccepted, model.ActionAnswerAccepted, ""); err != nil {
		return true, err
	}
	return true, nil
}
