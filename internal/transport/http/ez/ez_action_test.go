package ez

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	gormtests "gorm.io/gorm/utils/tests"

	"go-vending-machine/internal/domain"
	resp "go-vending-machine/internal/transport/http/response"
)

func newActionRig(t *testing.T) (*gin.Engine, EZ, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(gormtests.DummyDialector{}, &gorm.Config{})
	if err != nil {
		t.Fatalf("open dummy db: %v", err)
	}
	r := gin.New()
	g := r.Group("")
	g.Use(func(c *gin.Context) {
		c.Set("userId", "b1")
		c.Set("role", domain.RoleBuyer)
	})
	return r, New(g), db
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestFromDomainMapping(t *testing.T) {
	cases := []struct {
		err      error
		wantCode int
		wantMsg  string
	}{
		{domain.ErrProductNotFound, resp.CodeNotFound, "Product not found!"},
		{domain.ErrUserNotFound, resp.CodeNotFound, "User not found"},
		{domain.ErrForbidden, resp.CodeForbidden, "Forbidden resource"},
		{domain.ErrOutOfStock, resp.CodeBadRequest, "Product is out of stock!"},
		{domain.ErrInsufficientDeposit, resp.CodeBadRequest, "Insufficient deposit!"},
		{domain.ErrInvalidCoin, resp.CodeBadRequest, "Amount can either be 5, 10, 20,50 or 100"},
		{domain.ErrCostNotMultipleOf5, resp.CodeBadRequest, "Product cost is not multiple of 5"},
	}
	for _, tc := range cases {
		ae := FromDomain(tc.err)
		if ae.Code != tc.wantCode {
			t.Errorf("FromDomain(%v).Code = %d, want %d", tc.err, ae.Code, tc.wantCode)
		}
		if ae.Error() != tc.wantMsg {
			t.Errorf("FromDomain(%v) msg = %q, want %q", tc.err, ae.Error(), tc.wantMsg)
		}
	}
}

func TestFromDomainUnknownIsInternal(t *testing.T) {
	ae := FromDomain(errors.New("connection refused"))
	if ae.Code != resp.CodeServerError {
		t.Fatalf("code = %d, want %d", ae.Code, resp.CodeServerError)
	}
	// 内部错误不外泄细节
	if ae.Error() != "internal error" {
		t.Fatalf("msg = %q, want \"internal error\"", ae.Error())
	}
}

// A quantity below 1 must pass the binder untouched so the handler's stable
// business message reaches the client, not gin's struct-field validator text.
func TestActionSurfacesStableQuantityMessage(t *testing.T) {
	r, e, db := newActionRig(t)

	type buyIn struct {
		ProductID string `json:"product_id" binding:"required"`
		// 数量不走 binding，稳定文案由业务层给出
		ProductQuantity int `json:"product_quantity"`
	}
	RegisterAction[buyIn, struct{}](e, db, Action[buyIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/buy",
		Binder: BindJSON,
		Auth:   true,
		Role:   domain.RoleBuyer,
		Handler: func(c *gin.Context, _ *gorm.DB, in *buyIn) (struct{}, error) {
			if in.ProductQuantity < 1 {
				return struct{}{}, domain.ErrInvalidQuantity
			}
			return struct{}{}, nil
		},
	})

	cases := []struct {
		name string
		body string
	}{
		{"zero", `{"product_id":"p1","product_quantity":0}`},
		{"negative", `{"product_id":"p1","product_quantity":-2}`},
		{"missing", `{"product_id":"p1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(r, "/buy", tc.body)

			var body struct {
				Code int    `json:"code"`
				Msg  string `json:"msg"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body.Code != resp.CodeBadRequest {
				t.Fatalf("code = %d, want %d", body.Code, resp.CodeBadRequest)
			}
			if body.Msg != "product_quantity must not be less than 1" {
				t.Fatalf("msg = %q, want the stable quantity message", body.Msg)
			}
		})
	}
}

func TestAfterCommitRunsOnlyOnSuccess(t *testing.T) {
	r, e, db := newActionRig(t)

	type actIn struct {
		Fail bool `json:"fail"`
	}
	var fired int
	RegisterAction[actIn, struct{}](e, db, Action[actIn, struct{}]{
		Method: http.MethodPost,
		Path:   "/act",
		Binder: BindJSON,
		Handler: func(c *gin.Context, _ *gorm.DB, in *actIn) (struct{}, error) {
			AfterCommit(c, func() { fired++ })
			if in.Fail {
				return struct{}{}, domain.ErrOutOfStock
			}
			return struct{}{}, nil
		},
	})

	postJSON(r, "/act", `{"fail":true}`)
	if fired != 0 {
		t.Fatalf("callback ran on a failed action")
	}
	postJSON(r, "/act", `{"fail":false}`)
	if fired != 1 {
		t.Fatalf("callback fired %d times after success, want 1", fired)
	}
}

func TestAErrHelpers(t *testing.T) {
	var ae *AErr
	if err := NotFound("Product not found!"); !errors.As(err, &ae) || ae.Code != resp.CodeNotFound {
		t.Fatalf("NotFound not an AErr 404: %v", err)
	}
	if err := Forbidden("You can't edit this product."); !errors.As(err, &ae) || ae.Code != resp.CodeForbidden {
		t.Fatalf("Forbidden not an AErr 403: %v", err)
	}
	if Internal("boom", errors.New("x")).Error() != "boom" {
		t.Fatal("Internal should surface its msg, not the wrapped error")
	}
}
