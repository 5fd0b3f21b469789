// Package lawdex provides an embeddable Go client for the lawdex legal
// retrieval pipeline: encode a scenario, rank laws or judgments by vector
// similarity, and attach an LLM relevance explanation to each hit.
//
//	client, _ := lawdex.New(ctx,
//	    lawdex.WithRedis("localhost:6379", ""),
//	    lawdex.WithEmbedding(os.Getenv("OPENAI_API_KEY"), "text-embedding-3-small"),
//	    lawdex.WithLLM(os.Getenv("OPENAI_API_KEY"), "gpt-3.5-turbo"),
//	)
//	defer client.Close()
//
//	results, _ := client.FindSuitable(ctx, "פוטרתי במהלך הריון", lawdex.KindLaw, 5)
//	for _, r := range results {
//	    fmt.Println(r.Document.Name, r.ScoreLabel())
//	}
package lawdex
