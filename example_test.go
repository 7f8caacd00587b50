package bconduit_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/advdv/bconduit"
	"github.com/cockroachdb/errors"
)

func Example() {
	svc := bconduit.New(bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
		return bconduit.NewResponse(http.StatusOK, bconduit.StringBody("hello "+r.Path())).
			AddHeader("Content-Type", "text/plain"), nil
	}), 4)
	defer svc.Close()

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/world", nil))

	fmt.Println("Status:", rec.Code)
	fmt.Println("Body:", rec.Body.String())
	// Output:
	// Status: 200
	// Body: hello /world
}

func ExampleHandlerFunc_errors() {
	svc := bconduit.NewWith(bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
		switch r.Path() {
		case "/panic":
			panic("something broke")
		case "/error":
			return nil, errors.New("database unavailable")
		}

		return bconduit.NewResponse(http.StatusNoContent, nil), nil
	}), 2, bconduit.NewStdLogger(nil))
	defer svc.Close()

	for _, path := range []string{"/", "/error", "/panic"} {
		rec := httptest.NewRecorder()
		svc.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		fmt.Printf("%s: %d %q\n", path, rec.Code, rec.Body.String())
	}
	// Output:
	// /: 204 ""
	// /error: 500 "Internal Server Error"
	// /panic: 500 "Internal Server Error"
}

func ExampleRequest_headers() {
	svc := bconduit.New(bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
		langs, _ := r.Headers().Find("accept-language")
		body, _ := io.ReadAll(r.Body())

		return bconduit.NewResponse(http.StatusOK, bconduit.StringBody(fmt.Sprintf(
			"%t %v %s", r.Method().Kind() == bconduit.MethodPost, langs, body))), nil
	}), 1)
	defer svc.Close()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("payload"))
	req.Header.Add("Accept-Language", "nl")
	req.Header.Add("Accept-Language", "en")

	rec := httptest.NewRecorder()
	svc.ServeHTTP(rec, req)

	fmt.Println(rec.Body.String())
	// Output:
	// true [nl en] payload
}

func ExampleBodyJSON() {
	svc := bconduit.New(bconduit.HandlerFunc(func(ctx context.Context, r bconduit.Request) (*bconduit.Response, error) {
		name := bconduit.BodyJSON(r, "user.name")
		if !name.Exists() {
			return bconduit.NewResponse(http.StatusBadRequest, bconduit.StringBody("missing name")), nil
		}

		return bconduit.NewResponse(http.StatusOK, bconduit.StringBody("hi "+name.String())), nil
	}), 1)
	defer svc.Close()

	for _, body := range []string{`{"user":{"name":"ada"}}`, `{}`} {
		rec := httptest.NewRecorder()
		svc.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		fmt.Println(rec.Code, rec.Body.String())
	}
	// Output:
	// 200 hi ada
	// 400 missing name
}
