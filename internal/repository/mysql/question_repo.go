package mysql

import (
	"context"
	"errors"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func (r *QuestionRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) FindQuestionByID(id uint64) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, "id = ? AND status = 0", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &q, err
}

// ListQuestions 基础分页，新问题在前
func (r *QuestionRepository) ListQuestions(offset, limit int) ([]model.Question, error) {
	var list []model.Question
	err := r.DB.
		Where("status = 0").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *QuestionRepository) CreateAnswer(a *model.Answer) error {
	return r.DB.Create(a).Error
}

func (r *QuestionRepository) FindAnswerByID(id uint64) (*model.Answer, error) {
	var a model.Answer
	err := r.DB.First(&a, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkg.ErrNotFound
	}
	return &a, err
}

func (r *QuestionRepository) ListAnswers(questionID uint64) ([]model.Answer, error) {
	var list []model.Answer
	err := r.DB.Where("question_id = ?", questionID).
		Order("accepted DESC, created_at ASC").
		Find(&list).Error
	return list, err
}

// Vote 一人一票幂等插入；changed=false 表示该用户已对此目标投过票
func (r *QuestionRepository) Vote(ctx context.Context, v *model.Vote) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoNothing: true,
	}).Create(v)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AcceptAnswer 采纳状态只允许 false->true 跳一次；changed=false 表示早已采纳
func (r *QuestionRepository) AcceptAnswer(ctx context.Context, answerID uint64) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&model.Answer{}).
		Where("id = ? AND accepted = ?", answerID, false).
		Update("accepted", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
