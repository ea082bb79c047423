package trafficlight

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// Metadata keys identifying who issued a request.
const (
	actorHostnameKey = "x-actor-hostname"
	actorUsernameKey = "x-actor-username"
)

// Actor identifies the host and user behind a remote request.
type Actor struct {
	Hostname string
	Username string
}

// WithActor attaches actor to the outgoing metadata of ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return metadata.AppendToOutgoingContext(ctx,
		actorHostnameKey, actor.Hostname,
		actorUsernameKey, actor.Username,
	)
}

// ActorFromContext extracts the actor of an incoming request.
// The second result is false when the caller did not identify itself.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return Actor{}, false
	}

	actor := Actor{
		Hostname: first(md.Get(actorHostnameKey)),
		Username: first(md.Get(actorUsernameKey)),
	}

	return actor, actor.Hostname != "" || actor.Username != ""
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}

	return values[0]
}
