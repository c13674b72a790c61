package user

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"terminal-terrace/library/internal/dto"
	userModel "terminal-terrace/library/internal/model/user"
	"terminal-terrace/library/internal/token"
	"terminal-terrace/library/packages/response"
)

const (
	MsgUserNotFound     = "User not found."
	MsgEmailTaken       = "The email has already been taken."
	MsgLibraryIDTaken   = "The library id has already been taken."
	MsgUnexpectedLookup = "Unexpected error while retrieving user."
)

type UserService struct {
	repo   *UserRepository
	tokens *token.Service
}

func NewUserService(db *gorm.DB, tokens *token.Service) *UserService {
	return &UserService{
		repo:   NewUserRepository(db),
		tokens: tokens,
	}
}

func (s *UserService) List(ctx context.Context, page dto.Page) ([]userModel.User, int64, error) {
	users, total, err := s.repo.List(ctx, page.Offset(), page.Size)
	if err != nil {
		return nil, 0, dto.StoreError(err, "retrieving users")
	}
	return users, total, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*userModel.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound(MsgUserNotFound)
		}
		return nil, response.NewBusinessError(response.WithErrorMessage(MsgUnexpectedLookup), response.WithError(err))
	}
	return u, nil
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*userModel.User, error) {
	email := strings.TrimSpace(req.Email)
	libraryID := strings.TrimSpace(req.LibraryID)

	if err := s.checkUnique(ctx, email, libraryID, 0); err != nil {
		return nil, err
	}

	role := userModel.RoleUser
	if req.Role != "" {
		role, _ = userModel.ParseRole(req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, response.NewBusinessError(
			response.WithErrorMessage("Unexpected error while creating user."),
			response.WithError(err),
		)
	}

	u := &userModel.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		LibraryID: libraryID,
		Role:      role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, dto.StoreError(err, "creating user")
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uint, req UpdateUserRequest) (*userModel.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	email := u.Email
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	libraryID := strings.TrimSpace(req.LibraryID)

	if err := s.checkUnique(ctx, email, libraryID, u.ID); err != nil {
		return nil, err
	}

	u.Email = email
	u.LibraryID = libraryID
	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Role != nil {
		if role, ok := userModel.ParseRole(*req.Role); ok {
			u.Role = role
		}
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, response.NewBusinessError(
				response.WithErrorMessage("Unexpected error while updating user."),
				response.WithError(err),
			)
		}
		u.Password = string(hash)
	}

	if err := s.repo.Save(ctx, u); err != nil {
		return nil, dto.StoreError(err, "updating user")
	}
	return u, nil
}

// Delete 删除用户并撤销其全部令牌; 有借阅记录的用户不能删除
func (s *UserService) Delete(ctx context.Context, id uint) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	referenced, err := s.repo.HasBorrowings(ctx, u.ID)
	if err != nil {
		return dto.StoreError(err, "deleting user")
	}
	if referenced {
		return dto.StoreError(gorm.ErrForeignKeyViolated, "deleting user")
	}

	if err := s.repo.Delete(ctx, u.ID); err != nil {
		return dto.StoreError(err, "deleting user")
	}

	if err := s.tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		// 用户已删除, 残留令牌在认证时也会因找不到用户而失效
		zap.L().Warn("revoke tokens of deleted user", zap.Uint("user_id", u.ID), zap.Error(err))
	}
	return nil
}

func (s *UserService) checkUnique(ctx context.Context, email, libraryID string, excludeID uint) error {
	opts := []response.ErrorOption{response.WithErrorCode(response.InvalidParameter)}
	var messages []string

	for _, c := range []struct{ column, value, msg string }{
		{"email", email, MsgEmailTaken},
		{"library_id", libraryID, MsgLibraryIDTaken},
	} {
		taken, err := s.repo.ExistsBy(ctx, c.column, c.value, excludeID)
		if err != nil {
			return dto.StoreError(err, "validating user")
		}
		if taken {
			opts = append(opts, response.WithFieldError(c.column, c.msg))
			messages = append(messages, c.msg)
		}
	}

	if len(messages) == 0 {
		return nil
	}
	msg := messages[0]
	if len(messages) > 1 {
		msg += " (and 1 more error)"
	}
	return response.NewBusinessError(append(opts, response.WithErrorMessage(msg))...)
}
