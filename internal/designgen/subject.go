package designgen

import (
	"context"
	"strings"
)

type clientAddrKey struct{}

// WithClientAddr records the network address a generation request came from.
// Generate counts the attempt against that address as well as the user.
func WithClientAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, clientAddrKey{}, strings.TrimSpace(addr))
}

func clientAddrFromContext(ctx context.Context) string {
	addr, _ := ctx.Value(clientAddrKey{}).(string)
	return addr
}

// ledgerSubjects lists every identity an attempt by userID is counted against.
func ledgerSubjects(ctx context.Context, userID string) []string {
	subjects := []string{userID}
	if addr := clientAddrFromContext(ctx); addr != "" {
		subjects = append(subjects, "addr:"+addr)
	}
	return subjects
}
