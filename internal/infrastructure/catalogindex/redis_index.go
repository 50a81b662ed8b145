package catalogindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ams/backend/internal/domain/catalog"
	"github.com/ams/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisIndex stores catalog documents in Redis with a term-set inverted index.
//
// Keys, all under the configured prefix:
//
//	doc:<type>:<id>    JSON document
//	type:<type>        set of ids of that type
//	terms:<type>:<id>  set of tokens the document was indexed under
//	term:<token>       set of document keys containing the token
type RedisIndex struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisIndex creates an index on an existing client
func NewRedisIndex(client redis.UniversalClient, prefix string) *RedisIndex {
	if prefix == "" {
		prefix = "catalog:"
	}
	return &RedisIndex{client: client, prefix: prefix}
}

func (r *RedisIndex) docKey(key string) string              { return r.prefix + "doc:" + key }
func (r *RedisIndex) termsKey(key string) string            { return r.prefix + "terms:" + key }
func (r *RedisIndex) termKey(token string) string           { return r.prefix + "term:" + token }
func (r *RedisIndex) typeKey(t catalog.DocumentType) string { return r.prefix + "type:" + string(t) }

// maxWatchAttempts bounds the optimistic retries of one write
const maxWatchAttempts = 100

// Upsert replaces the document and its postings atomically. The old
// postings are read under WATCH so a concurrent write of the same document
// restarts the transaction instead of leaving stale term members behind.
func (r *RedisIndex) Upsert(ctx context.Context, doc *catalog.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal catalog document: %w", err)
	}
	key := doc.Key()
	newTerms := UniqueTokens(doc.SearchableText())

	err = r.withPostings(ctx, key, func(pipe redis.Pipeliner, oldTerms []string) {
		for _, t := range oldTerms {
			pipe.SRem(ctx, r.termKey(t), key)
		}
		pipe.Del(ctx, r.termsKey(key))
		pipe.Set(ctx, r.docKey(key), payload, 0)
		pipe.SAdd(ctx, r.typeKey(doc.Type), doc.ID.String())
		if len(newTerms) > 0 {
			members := make([]any, len(newTerms))
			for i, t := range newTerms {
				members[i] = t
				pipe.SAdd(ctx, r.termKey(t), key)
			}
			pipe.SAdd(ctx, r.termsKey(key), members...)
		}
	})
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document and its postings
func (r *RedisIndex) Remove(ctx context.Context, docType catalog.DocumentType, id uuid.UUID) error {
	key := catalog.DocumentKey(docType, id)
	err := r.withPostings(ctx, key, func(pipe redis.Pipeliner, terms []string) {
		for _, t := range terms {
			pipe.SRem(ctx, r.termKey(t), key)
		}
		pipe.Del(ctx, r.termsKey(key), r.docKey(key))
		pipe.SRem(ctx, r.typeKey(docType), id.String())
	})
	if err != nil {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

// withPostings watches the posting list of key, reads it and queues the
// writes of fn in MULTI. It retries while another client changes the list.
func (r *RedisIndex) withPostings(ctx context.Context, key string, fn func(pipe redis.Pipeliner, terms []string)) error {
	termsKey := r.termsKey(key)
	txf := func(tx *redis.Tx) error {
		terms, err := tx.SMembers(ctx, termsKey).Result()
		if err != nil {
			return fmt.Errorf("read postings: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			fn(pipe, terms)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxWatchAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, termsKey)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return redis.TxFailedErr
}

// Get loads one document
func (r *RedisIndex) Get(ctx context.Context, docType catalog.DocumentType, id uuid.UUID) (*catalog.Document, error) {
	raw, err := r.client.Get(ctx, r.docKey(catalog.DocumentKey(docType, id))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get catalog document: %w", err)
	}
	var doc catalog.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog document: %w", err)
	}
	return &doc, nil
}

// Search intersects the term sets of the query, then filters and ranks the
// candidates in process
func (r *RedisIndex) Search(ctx context.Context, q catalog.Query) (*catalog.Result, error) {
	q = q.Normalize()
	terms := UniqueTokens(q.Text)

	keys, err := r.candidates(ctx, q, terms)
	if err != nil {
		return nil, err
	}

	hits := make([]catalog.Hit, 0, len(keys))
	for start := 0; start < len(keys); start += 500 {
		batch := keys[start:min(start+500, len(keys))]
		docKeys := make([]string, len(batch))
		for i, k := range batch {
			docKeys[i] = r.docKey(k)
		}
		values, err := r.client.MGet(ctx, docKeys...).Result()
		if err != nil {
			return nil, fmt.Errorf("load catalog documents: %w", err)
		}
		for _, v := range values {
			s, ok := v.(string)
			if !ok {
				continue
			}
			var doc catalog.Document
			if err := json.Unmarshal([]byte(s), &doc); err != nil {
				return nil, fmt.Errorf("decode catalog document: %w", err)
			}
			if !matchesFilters(&doc, q) {
				continue
			}
			score, ok := analyze(&doc).score(terms)
			if !ok {
				continue
			}
			hits = append(hits, catalog.Hit{Document: &doc, Score: score})
		}
	}
	return rank(hits, q), nil
}

func (r *RedisIndex) candidates(ctx context.Context, q catalog.Query, terms []string) ([]string, error) {
	if len(terms) > 0 {
		setKeys := make([]string, len(terms))
		for i, t := range terms {
			setKeys[i] = r.termKey(t)
		}
		keys, err := r.client.SInter(ctx, setKeys...).Result()
		if err != nil {
			return nil, fmt.Errorf("intersect term sets: %w", err)
		}
		return keys, nil
	}

	types := q.Types
	if len(types) == 0 {
		types = catalog.AllDocumentTypes
	}
	var keys []string
	for _, t := range types {
		ids, err := r.client.SMembers(ctx, r.typeKey(t)).Result()
		if err != nil {
			return nil, fmt.Errorf("list %s documents: %w", t, err)
		}
		for _, id := range ids {
			keys = append(keys, string(t)+":"+id)
		}
	}
	return keys, nil
}

// Count returns the cardinality of the type set
func (r *RedisIndex) Count(ctx context.Context, docType catalog.DocumentType) (int64, error) {
	n, err := r.client.SCard(ctx, r.typeKey(docType)).Result()
	if err != nil {
		return 0, fmt.Errorf("count %s documents: %w", docType, err)
	}
	return n, nil
}

// IDs lists the ids in the type set
func (r *RedisIndex) IDs(ctx context.Context, docType catalog.DocumentType) ([]uuid.UUID, error) {
	members, err := r.client.SMembers(ctx, r.typeKey(docType)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s documents: %w", docType, err)
	}
	ids := make([]uuid.UUID, 0, len(members))
	for _, m := range members {
		id, err := uuid.Parse(m)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Clear removes every document of a type
func (r *RedisIndex) Clear(ctx context.Context, docType catalog.DocumentType) error {
	ids, err := r.IDs(ctx, docType)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.Remove(ctx, docType, id); err != nil {
			return err
		}
	}
	return r.client.Del(ctx, r.typeKey(docType)).Err()
}

// Close is a no-op; the client is owned by the caller
func (r *RedisIndex) Close() error { return nil }

var _ catalog.Index = (*RedisIndex)(nil)
