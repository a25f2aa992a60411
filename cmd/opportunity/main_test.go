package main

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	mu sync.Mutex // Protect lambdaStart in tests
)

func TestLambdaInit(t *testing.T) {
	mu.Lock()
	originalStartFn := lambdaStart
	var startCalled bool
	lambdaStart = func(handler interface{}) {
		mu.Lock()
		startCalled = true
		mu.Unlock()

		handlerType := reflect.TypeOf(handler)
		if handlerType.Kind() != reflect.Func {
			t.Error("Handler is not a function")
			return
		}

		// Verify the handler has the correct signature
		contextInterface := reflect.TypeOf((*context.Context)(nil)).Elem()
		proxyRequest := reflect.TypeOf(events.APIGatewayProxyRequest{})
		proxyResponse := reflect.TypeOf(events.APIGatewayProxyResponse{})
		errorInterface := reflect.TypeOf((*error)(nil)).Elem()

		if handlerType.NumIn() != 2 || handlerType.NumOut() != 2 ||
			!handlerType.In(0).Implements(contextInterface) ||
			handlerType.In(1) != proxyRequest ||
			handlerType.Out(0) != proxyResponse ||
			!handlerType.Out(1).Implements(errorInterface) {
			t.Error("Handler does not match expected signature")
		}
	}
	mu.Unlock()

	defer func() {
		mu.Lock()
		lambdaStart = originalStartFn
		mu.Unlock()
	}()

	go main()

	// Give main() a moment to run
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	wasStartCalled := startCalled
	mu.Unlock()

	assert.True(t, wasStartCalled, "Lambda start was not called")
}

func TestHandleRequest(t *testing.T) {
	require.NotNil(t, opportunityHandler, "init should wire the handler")

	tests := []struct {
		name           string
		request        events.APIGatewayProxyRequest
		expectedStatus int
		expectedType   string
	}{
		{
			name: "analysis for a valid location",
			request: events.APIGatewayProxyRequest{
				Path:                  "/opportunity",
				QueryStringParameters: map[string]string{"lat": "1.35", "lon": "103.82"},
			},
			expectedStatus: http.StatusOK,
			expectedType:   "opportunity",
		},
		{
			name: "nearest competitors",
			request: events.APIGatewayProxyRequest{
				Path:                  "/opportunity/competitors",
				QueryStringParameters: map[string]string{"lat": "1.35", "lon": "103.82", "limit": "3"},
			},
			expectedStatus: http.StatusOK,
			expectedType:   "competitors",
		},
		{
			name: "invalid coordinates",
			request: events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"lat": "95", "lon": "0"},
			},
			expectedStatus: http.StatusBadRequest,
			expectedType:   "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			response, err := handleRequest(context.Background(), tt.request)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, response.StatusCode)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal([]byte(response.Body), &body))
			assert.Equal(t, tt.expectedType, body["responseType"])
		})
	}
}
