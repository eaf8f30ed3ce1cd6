// Package paging implements keyset (seek) pagination with tamper-proof
// opaque cursors for traversing large, live datasets.
//
// Unlike offset pagination, keyset pagination pages via a range condition on
// the last-seen sort key plus an id tie-breaker, so lookup cost does not grow
// with page depth and concurrent inserts or deletes never cause rows to be
// skipped or duplicated behind the traversal position.
//
// # Cursors
//
// Page position is carried entirely by the client in a signed, opaque token:
//
//	codec, _ := paging.NewCodec(cfg.Paging.Secret)
//	token, _ := codec.Encode(paging.Payload{
//	    SortBy:        "created_at",
//	    SortDirection: paging.Desc,
//	    LastValue:     "2025-08-14T10:30:00Z",
//	    LastID:        paging.ID(12345),
//	})
//
// Tokens are base64url-encoded JSON with an HMAC-SHA256 signature over a
// canonical serialization of the payload, so identical payloads always yield
// identical tokens and any tampering is rejected on decode. Cursors are
// stateless: nothing is persisted server-side.
//
// # Resources
//
// Each paginated resource registers its sortable and filterable fields at
// startup. Unknown field names fail fast instead of surfacing as runtime
// storage errors:
//
//	res := paging.NewResource[*Project]("projects", func(p *Project) int64 { return p.ID }).
//	    Sortable("created_at", paging.Field[*Project]{
//	        Column: "created_at",
//	        Kind:   paging.KindTime,
//	        Value:  func(p *Project) any { return p.CreatedAt },
//	    }).
//	    Filterable("status", paging.FilterField[*Project]{Column: "status", Kind: paging.KindString})
//
// # Paginating
//
//	pager := paging.NewPaginator(codec, res, store)
//	result, err := pager.Page(ctx, paging.Params{Limit: 20, SortBy: "created_at"})
//
// The result carries the page items in canonical presentation order together
// with has_next/has_previous flags and freshly minted next/previous cursors.
// Filters embedded in a cursor stay applied for the whole traversal; filters
// supplied on a later request may only narrow the result set, never widen it.
//
// Store adapters for ent, database/sql and in-memory slices live in the
// entsql, sqlstore and memstore subpackages.
package paging
