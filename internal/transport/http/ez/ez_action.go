// Package ez is the thin route-registration layer: each endpoint is one
// Action value with typed input/output, optional auth/role gating and
// optional transaction wrapping.
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"go-vending-machine/internal/domain"
	resp "go-vending-machine/internal/transport/http/response"
	"go-vending-machine/internal/vending"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func BadRequest(msg string) error   { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Code: resp.CodeUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Code: resp.CodeNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// FromDomain maps the stable business errors onto the response taxonomy.
// The message text travels unchanged; only the code bucket differs.
func FromDomain(err error) *AErr {
	switch {
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return &AErr{Code: resp.CodeNotFound, Msg: err.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return &AErr{Code: resp.CodeForbidden, Msg: err.Error()}
	case errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrInsufficientDeposit),
		errors.Is(err, domain.ErrInvalidCoin),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrCostNotMultipleOf5):
		return &AErr{Code: resp.CodeBadRequest, Msg: err.Error()}
	default:
		return &AErr{Code: resp.CodeServerError, Msg: "internal error", Err: err}
	}
}

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method string // "GET" | "POST" | "PUT" | "DELETE"
	Path   string // 例："/deposit"、"/products/:id"
	Binder Binder // 绑定方式
	Auth   bool   // 是否要求登录（检查 userId）
	Role   string // 限定角色（"BUYER"/"SELLER"，空则不限）
	UseTx  bool   // 是否包事务（gorm.Transaction）
	OKMsg  string // 成功时的业务确认语（空则默认 "OK"）

	Handler func(c *gin.Context, db *gorm.DB, in *I) (O, error)
}

// CallerOf extracts the authenticated identity stored by the JWT middleware.
func CallerOf(c *gin.Context) vending.Caller {
	return vending.Caller{UserID: c.GetString("userId"), Role: c.GetString("role")}
}

const afterCommitKey = "ez.afterCommit"

// AfterCommit 注册动作成功（事务提交）后才执行的回调。
// 事务里直接做缓存失效会留窗口：并发读按未提交的数据回填缓存。
func AfterCommit(c *gin.Context, fn func()) {
	v, _ := c.Get(afterCommitKey)
	fns, _ := v.([]func())
	c.Set(afterCommitKey, append(fns, fn))
}

func runAfterCommit(c *gin.Context) {
	v, ok := c.Get(afterCommitKey)
	if !ok {
		return
	}
	if fns, ok := v.([]func()); ok {
		for _, fn := range fns {
			fn()
		}
	}
}

// RegisterAction 在当前 EZ 下注册动作接口（传入 *gorm.DB）
func RegisterAction[I any, O any](e EZ, db *gorm.DB, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色：显式 capability check
		if a.Auth {
			if err := vending.Authorize(CallerOf(c), a.Role); err != nil {
				if c.GetString("userId") == "" {
					c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "unauthorized"))
					return
				}
				c.JSON(http.StatusOK, resp.Error(resp.CodeForbidden, domain.ErrForbidden.Error()))
				return
			}
		}

		// 2) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		// 3) 执行（可选事务）
		run := func(tx *gorm.DB) (O, error) { return a.Handler(c, tx, &in) }
		var out O
		var err error
		if a.UseTx {
			err = db.WithContext(c).Transaction(func(tx *gorm.DB) error {
				o, e := run(tx)
				out = o
				return e
			})
		} else {
			out, err = run(db.WithContext(c))
		}

		// 4) 统一错误映射
		if err != nil {
			var ae *AErr
			if !errors.As(err, &ae) {
				ae = FromDomain(err)
			}
			c.JSON(http.StatusOK, resp.Error(ae.Code, ae.Error()))
			return
		}
		runAfterCommit(c)
		if a.OKMsg != "" {
			c.JSON(http.StatusOK, resp.OKMsg(a.OKMsg, out))
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}
