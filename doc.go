// Package eshttp is a minimal HTTP/1.1 transport to a single JSON document server, such as an
// Elasticsearch node, over one plain TCP connection.
//
// A Transport resolves its target once, in New, and opens the connection lazily. Requests are
// serialized on that connection; a request that fails is retried once on a fresh connection,
// except when the server answered 400, 403 or 500.
//
//	tr, err := eshttp.New("http://localhost:9200", eshttp.Config{KeepAlive: true})
//	if err != nil {
//		return err
//	}
//	defer tr.Close()
//
//	doc, err := tr.Get(ctx, "twitter/_doc/1")
//
// Response documents carry the HTTP status code in their "status" member.
package eshttp
