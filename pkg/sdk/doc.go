// Package catalogsearch embeds the catalogsearch engine in a Go program:
// natural-language product search over a FakeStore-compatible catalog with
// a completion model as the primary interpreter and a deterministic
// price, rating and keyword interpreter as the fallback.
//
// Every search returns a result tagged with the path that produced it, so
// callers can tell a model answer from a fallback.
//
//	client, err := catalogsearch.New(ctx,
//	    catalogsearch.WithOpenAI(os.Getenv("OPEN_ROUTER_API_KEY"), "", ""),
//	    catalogsearch.WithCache("localhost:6379", "", time.Minute),
//	)
//	if err != nil { ... }
//	defer client.Close()
//
//	res, _ := client.Search(ctx, "running shoes under $100 with good reviews", "")
//	fmt.Println(res.Note) // model-served, fallback-no-key, ...
//	for _, p := range res.Products {
//	    fmt.Println(p.ID, p.Title, p.Price)
//	}
//
// Without WithOpenAI, WithAnthropic or WithCompleter every search uses the
// pattern interpreter and is tagged NoteFallbackNoKey.
package catalogsearch
