// Package memdex provides an embedded Go client for the memdex context
// store: CRUD over context records plus hybrid lexical/semantic search over
// an in-memory index.
//
// The client wires the full engine in-process. With the memory driver it
// needs no external services at all; with the Redis driver records survive
// restarts and the index is rebuilt from the stored snapshot on startup.
//
//	client, err := memdex.New(ctx, memdex.WithMemory())
//	if err != nil { ... }
//	defer client.Close()
//
//	rec, _ := client.Create(ctx, memdex.Context{
//	    Title:   "Team retro notes",
//	    Content: "We decided to keep the weekly retro async.",
//	    Tags:    []string{"process"},
//	})
//
//	resp, _ := client.Search(ctx, memdex.SearchRequest{Query: "retro"})
//	for _, r := range resp.Results {
//	    fmt.Println(r.Context.Title, r.Score)
//	}
//
// Semantic scoring requires an embedding provider (WithEmbedder or
// WithOpenAI); without one the engine runs in lexical-only mode.
package memdex
