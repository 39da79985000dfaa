package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-vending-machine/internal/core/auth"
	"go-vending-machine/internal/domain"
	"go-vending-machine/internal/repo"
	httpez "go-vending-machine/internal/transport/http/ez"
	"go-vending-machine/pkg/utils"
)

type userOut struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Deposit   int       `json:"deposit"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserOut(u *domain.User) userOut {
	return userOut{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Deposit:   u.Deposit,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// mountUserActions 账户注册/登录与用户 CRUD
func mountUserActions(api, authed *gin.RouterGroup, db *gorm.DB, jwter *auth.JWTer) {
	ezPublic := httpez.New(api)
	ezAuth := httpez.New(authed)

	// --- POST /users 公开注册 ---
	type signupIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"     binding:"required"`
	}
	httpez.RegisterAction[signupIn, userOut](ezPublic, db, httpez.Action[signupIn, userOut]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: httpez.BindJSON,
		OKMsg:  "User Created",
		Handler: func(c *gin.Context, tx *gorm.DB, in *signupIn) (userOut, error) {
			if !domain.ValidRole(in.Role) {
				return userOut{}, httpez.BadRequest("Role must be `BUYER` or `SELLER`")
			}
			u := &domain.User{
				ID:           utils.NewID(),
				Username:     strings.TrimSpace(in.Username),
				PasswordHash: utils.HashPassword(in.Password),
				Role:         in.Role,
			}
			if err := repo.NewUserRepo(tx).Create(c, u); err != nil {
				if isDupKey(err) {
					return userOut{}, httpez.BadRequest("username already taken")
				}
				return userOut{}, httpez.Internal("create user failed", err)
			}
			return toUserOut(u), nil
		},
	})

	// --- POST /auth/login ---
	type loginIn struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	type loginOut struct {
		Username    string `json:"username"`
		Role        string `json:"role"`
		AccessToken string `json:"access_token"`
	}
	httpez.RegisterAction[loginIn, loginOut](ezPublic, db, httpez.Action[loginIn, loginOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: httpez.BindJSON,
		OKMsg:  "Login Successful",
		Handler: func(c *gin.Context, tx *gorm.DB, in *loginIn) (loginOut, error) {
			u, err := repo.NewUserRepo(tx).FindByUsername(c, in.Username)
			if err != nil {
				return loginOut{}, httpez.Internal("login failed", err)
			}
			if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
				return loginOut{}, httpez.Unauthorized("Incorrect Credential")
			}
			tok, err := jwter.Issue(u.ID, u.Role)
			if err != nil || tok == "" {
				return loginOut{}, httpez.Internal("issue token failed", err)
			}
			return loginOut{Username: u.Username, Role: u.Role, AccessToken: tok}, nil
		},
	})

	// --- GET /users ---
	type listQ struct {
		Offset int `form:"offset,default=0"`
		Limit  int `form:"limit,default=0"`
	}
	httpez.RegisterAction[listQ, []userOut](ezAuth, db, httpez.Action[listQ, []userOut]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: httpez.BindQuery,
		Auth:   true,
		OKMsg:  "Users Retrieved",
		Handler: func(c *gin.Context, tx *gorm.DB, in *listQ) ([]userOut, error) {
			users, _, err := repo.NewUserRepo(tx).List(c, in.Offset, in.Limit)
			if err != nil {
				return nil, httpez.Internal("list users failed", err)
			}
			out := make([]userOut, 0, len(users))
			for i := range users {
				out = append(out, toUserOut(&users[i]))
			}
			return out, nil
		},
	})

	// --- GET /users/me ---
	httpez.RegisterAction[struct{}, userOut](ezAuth, db, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/users/me",
		Binder: httpez.BindNone,
		Auth:   true,
		OKMsg:  "User Retrieved",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (userOut, error) {
			return findUserOut(c, tx, httpez.CallerOf(c).UserID)
		},
	})

	// --- GET /users/:id ---
	httpez.RegisterAction[struct{}, userOut](ezAuth, db, httpez.Action[struct{}, userOut]{
		Method: http.MethodGet,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		OKMsg:  "User Retrieved",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (userOut, error) {
			return findUserOut(c, tx, c.Param("id"))
		},
	})

	// --- PUT /users/me | /users/:id ---
	// role 与 deposit 不可改，只有 username（密码走注册流程外不在范围内）
	type updateIn struct {
		Username *string `json:"username"`
	}
	updateHandler := func(idOf func(*gin.Context) string) func(*gin.Context, *gorm.DB, *updateIn) (userOut, error) {
		return func(c *gin.Context, tx *gorm.DB, in *updateIn) (userOut, error) {
			users := repo.NewUserRepo(tx)
			u, err := users.FindByID(c, idOf(c))
			if err != nil {
				return userOut{}, httpez.Internal("find user failed", err)
			}
			if u == nil {
				return userOut{}, domain.ErrUserNotFound
			}
			if in.Username != nil && strings.TrimSpace(*in.Username) != "" {
				u.Username = strings.TrimSpace(*in.Username)
			}
			if err := users.Update(c, u); err != nil {
				if isDupKey(err) {
					return userOut{}, httpez.BadRequest("username already taken")
				}
				return userOut{}, httpez.Internal("update user failed", err)
			}
			return toUserOut(u), nil
		}
	}
	httpez.RegisterAction[updateIn, userOut](ezAuth, db, httpez.Action[updateIn, userOut]{
		Method:  http.MethodPut,
		Path:    "/users/me",
		Binder:  httpez.BindJSON,
		Auth:    true,
		OKMsg:   "User Updated",
		Handler: updateHandler(func(c *gin.Context) string { return httpez.CallerOf(c).UserID }),
	})
	httpez.RegisterAction[updateIn, userOut](ezAuth, db, httpez.Action[updateIn, userOut]{
		Method:  http.MethodPut,
		Path:    "/users/:id",
		Binder:  httpez.BindJSON,
		Auth:    true,
		OKMsg:   "User Updated",
		Handler: updateHandler(func(c *gin.Context) string { return c.Param("id") }),
	})

	// --- DELETE /users/:id ---
	httpez.RegisterAction[struct{}, gin.H](ezAuth, db, httpez.Action[struct{}, gin.H]{
		Method: http.MethodDelete,
		Path:   "/users/:id",
		Binder: httpez.BindNone,
		Auth:   true,
		OKMsg:  "User Deleted",
		Handler: func(c *gin.Context, tx *gorm.DB, _ *struct{}) (gin.H, error) {
			if err := repo.NewUserRepo(tx).Delete(c, c.Param("id")); err != nil {
				return nil, err
			}
			return gin.H{"id": c.Param("id")}, nil
		},
	})
}

func findUserOut(c *gin.Context, tx *gorm.DB, id string) (userOut, error) {
	u, err := repo.NewUserRepo(tx).FindByID(c, id)
	if err != nil {
		return userOut{}, httpez.Internal("find user failed", err)
	}
	if u == nil {
		return userOut{}, domain.ErrUserNotFound
	}
	return toUserOut(u), nil
}

func isDupKey(err error) bool {
	// 不依赖 gorm.ErrDuplicatedKey，避免版本差异
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation") ||
		strings.Contains(msg, "duplicate key")
}
