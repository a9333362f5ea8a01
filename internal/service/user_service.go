package service

import (
	"context"
	"fmt"

	"github.com/KrishnaNAcharya/mentorstack/internal/model"
	"github.com/KrishnaNAcharya/mentorstack/internal/pkg"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/mysql"
	"github.com/KrishnaNAcharya/mentorstack/internal/repository/redis"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt 代价，沿用线上值
const passwordCost = 12

type UserService struct {
	repo     *mysql.UserRepository
	badgeSvc *BadgeService
	rUser    *redis.UserRepository
	emailSvc *EmailService
}

func NewUserService(db *gorm.DB, emailSvc *EmailService) *UserService {
	return &UserService{
		repo:     &mysql.UserRepository{DB: db},
		badgeSvc: NewBadgeService(db),
		rUser:    &redis.UserRepository{},
		emailSvc: emailSvc,
	}
}

// Register 注册只开放 mentor/mentee；admin 走 createadmin 工具
func (s *UserService) Register(name, email, password string, role model.Role, bio, location, skills, code string) (*model.User, error) {
	if role != model.RoleMentor && role != model.RoleMentee {
		return nil, fmt.Errorf("%w: role must be mentor or mentee", pkg.ErrInvalidArgument)
	}
	ok, err := s.emailSvc.VerifyCode("register", email, code)
	if err != nil || !ok {
		return nil, fmt.Errorf("%w: email verification failed", pkg.ErrInvalidArgument)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     name,
		Email:    email,
		Password: string(hash),
		Role:     role,
		Bio:      bio,
		Location: location,
		Skills:   skills,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(email, password string) (*pkg.Pair, *model.User, error) {
	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", pkg.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", pkg.ErrForbidden)
	}

	token, err := pkg.GeneratePair(user.ID, string(user.Role))
	if err != nil {
		return nil, nil, err
	}
	// 单点登录：最新 token 落 redis，旧会话自动失效
	if err = s.rUser.AddUserToken(user.ID, token.AccessToken); err != nil {
		return nil, nil, err
	}
	return token, user, nil
}

func (s *UserService) Logout(usrID uint64) error {
	return s.rUser.DeleteUserToken(usrID)
}

func (s *UserService) Refresh(refreshToken string) (*pkg.Pair, error) {
	pair, err := pkg.Refresh(refreshToken)
	if err != nil {
		return nil, err
	}
	claims, err := pkg.ParseAccess(pair.AccessToken)
	if err != nil {
		return nil, err
	}
	if err = s.rUser.AddUserToken(claims.UserID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

func (s *UserService) ResetPassword(email, code, newPassword string) error {
	ok, err := s.emailSvc.VerifyCode("reset", email, code)
	if err != nil || !ok {
		return fmt.Errorf("%w: verification failed", pkg.ErrInvalidArgument)
	}

	user, err := s.repo.FindByEmail(email)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordCost)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(user, string(hash))
}

// ChangePassword 登录态修改密码，成功后踢掉当前会话
func (s *UserService) ChangePassword(usrID uint64, oldPassword, newPassword string) error {
	user, err := s.repo.FindByID(usrID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return fmt.Errorf("%w: old password is incorrect", pkg.ErrInvalidArgument)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), passwordCost)
	if err != nil {
		return err
	}
	if err = s.repo.UpdatePassword(user, string(hash)); err != nil {
		return err
	}
	return s.Logout(usrID)
}

// ProfileView 按角色裁剪的档案视图
type ProfileView struct {
	ID         uint64             `json:"id"`
	Name       string             `json:"name"`
	Email      string             `json:"email"`
	Role       model.Role         `json:"role"`
	Reputation int64              `json:"reputation"`
	Bio        string             `json:"bio,omitempty"`
	Location   string             `json:"location,omitempty"`
	Skills     string             `json:"skills,omitempty"`
	Badges     []model.BadgeAward `json:"badges"`
}

// Profile 单一查询按角色标签分发，不再按角色各查一张表
func (s *UserService) Profile(ctx context.Context, userID uint64) (*ProfileView, error) {
	user, err := s.repo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	awards, err := s.badgeSvc.repo.AwardsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		Reputation: user.Reputation,
		Badges:     awards,
	}
	switch user.Role {
	case model.RoleMentor, model.RoleMentee:
		view.Bio = user.Bio
		view.Location = user.Location
		view.Skills = user.Skills
	case model.RoleAdmin:
		// 管理员档案不带导师字段
	}
	return view, nil
}

// SearchUsers 管理后台用户搜索
func (s *UserService) SearchUsers(query string, page, size int) ([]model.User, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	return s.repo.Search(query, (page-1)*size, size)
}
