// Package venuedex embeds the venuedex search core in a Go program.
//
// The client wires the Redis store, the repositories and the use cases
// in-process; no HTTP server is involved.
//
//	client, err := venuedex.New(ctx,
//	    venuedex.WithRedis("localhost:6379"),
//	    venuedex.WithEmbedding("tei", "http://localhost:8081", "Xenova/all-MiniLM-L6-v2", ""),
//	    venuedex.WithLLM("anthropic", "claude-3-haiku-20240307", os.Getenv("ANTHROPIC_API_KEY")),
//	)
//	defer client.Close()
//
//	resp, _ := client.TranslateAndSearch(ctx, "tacos near me I haven't tried", nil,
//	    &venuedex.UserLocation{Latitude: 37.7749, Longitude: -122.4194})
//
// Servers and tools that share the service configuration files use
// WithEnvironment instead of the individual options.
package venuedex
