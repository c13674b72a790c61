package login

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/model/user"
	"terminal-terrace/library/internal/token"
	"terminal-terrace/library/packages/response"
)

const MsgInvalidCredentials = "Invalid credentials."

// dummyHash 用户不存在时也做一次比较, 响应时间不泄露邮箱是否注册
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type LoginService struct {
	db     *gorm.DB
	tokens *token.Service
}

func NewLoginService(db *gorm.DB, tokens *token.Service) *LoginService {
	return &LoginService{db: db, tokens: tokens}
}

// Login 校验邮箱密码并签发令牌; 两种失败都报在 email 字段上
func (s *LoginService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, *response.BusinessError) {
	var u user.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.TrimSpace(req.Email)).First(&u).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewBusinessError(
				response.WithErrorMessage("Unexpected error while logging in."),
				response.WithError(err),
			)
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, invalidCredentials()
	}

	issued, err := s.tokens.Issue(ctx, u.ID)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("Unexpected error while logging in."),
			response.WithError(err),
		)
	}

	return &LoginResponse{User: &u, Token: issued.Token}, nil
}

func invalidCredentials() *response.BusinessError {
	return response.NewFieldError("email", MsgInvalidCredentials)
}
