package websockets

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/chris/gig-agreements/pkg/middleware"
	"github.com/chris/gig-agreements/pkg/websockets"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Registry tracks the live connections served by this process.
type Registry interface {
	Register(connectionID, userID string, conn websockets.Conn)
	Unregister(connectionID string)
}

// Handler handles WebSocket connections.
type Handler struct {
	connManager websockets.ConnectionManager
	registry    Registry
}

// NewHandler creates a new Handler. registry may be nil when connections
// are held by API Gateway.
func NewHandler(connManager websockets.ConnectionManager, registry Registry) *Handler {
	return &Handler{
		connManager: connManager,
		registry:    registry,
	}
}

// userOf reads the caller forwarded by the gateway authorizer, falling back
// to the userId query parameter used by browser clients.
func userOf(request events.APIGatewayWebsocketProxyRequest) string {
	for k, v := range request.Headers {
		if http.CanonicalHeaderKey(k) == middleware.UserIDHeader && v != "" {
			return v
		}
	}
	return request.QueryStringParameters["userId"]
}

// Handle dispatches an API Gateway WebSocket event by route key.
func (h *Handler) Handle(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	switch request.RequestContext.RouteKey {
	case "$connect":
		return h.HandleConnect(ctx, request)
	case "$disconnect":
		return h.HandleDisconnect(ctx, request)
	default:
		return h.HandleDefault(ctx, request)
	}
}

// HandleConnect handles new client connections.
func (h *Handler) HandleConnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	connectionID := request.RequestContext.ConnectionID
	userID := userOf(request)
	if userID == "" {
		slog.Warn("Rejected connection without a user", "connectionId", connectionID)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusUnauthorized}, nil
	}
	slog.Info("Client connected", "connectionId", connectionID, "userId", userID)

	if err := h.connManager.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDisconnect handles client disconnections.
func (h *Handler) HandleDisconnect(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	slog.Info("Client disconnected", "connectionId", request.RequestContext.ConnectionID)

	if err := h.connManager.RemoveConnection(ctx, request.RequestContext.ConnectionID); err != nil {
		slog.Error("failed to delete connection ID", "error", err)
		return events.APIGatewayProxyResponse{StatusCode: http.StatusInternalServerError}, err
	}

	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

// HandleDefault handles messages sent from a client.
func (h *Handler) HandleDefault(ctx context.Context, request events.APIGatewayWebsocketProxyRequest) (events.APIGatewayProxyResponse, error) {
	// Clients only listen; anything they send is logged and dropped.
	slog.Info("Received message", "connectionId", request.RequestContext.ConnectionID, "bytes", len(request.Body))
	return events.APIGatewayProxyResponse{StatusCode: http.StatusOK}, nil
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all connections by default for local development.
		return true
	},
}

// ServeHTTP handles WebSocket requests for the local development server.
// It must be mounted behind middleware.Actor.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := middleware.ActorFrom(r.Context()).UserID
	if userID == "" {
		userID = r.URL.Query().Get("userId")
	}
	if userID == "" {
		http.Error(w, "caller identity is required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connectionID := uuid.New().String()
	slog.Info("Client connected locally", "connectionId", connectionID, "userId", userID)

	// The request context is cancelled once the client goes away, and the
	// cleanup below still has to reach the store.
	ctx := context.WithoutCancel(r.Context())
	if err := h.connManager.AddConnection(ctx, connectionID, userID); err != nil {
		slog.Error("failed to save local connection ID", "error", err)
		return
	}
	if h.registry != nil {
		h.registry.Register(connectionID, userID, conn)
	}

	defer func() {
		slog.Info("Client disconnected locally", "connectionId", connectionID)
		if h.registry != nil {
			h.registry.Unregister(connectionID)
		}
		if err := h.connManager.RemoveConnection(ctx, connectionID); err != nil {
			slog.Error("failed to delete local connection ID", "error", err)
		}
	}()

	// The loop only detects the client closing the connection.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("unexpected close error", "error", err)
			}
			break
		}
	}
}
