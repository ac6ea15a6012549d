// Package guideline 提供 ES8 Indexer 集成,基于 eino-ext es8.NewIndexer
package guideline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/components/indexer/es8"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/schema"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/acmgbench/varbench/internal/config"
)

// Indexer 指南分块索引器接口,便于测试替换
type Indexer interface {
	Store(ctx context.Context, docs []*schema.Document) ([]string, error)
	EnsureIndex(ctx context.Context) error
}

// NewES8Indexer 创建 ES8 Indexer,指南分块写入 <prefix>_guideline 索引
func NewES8Indexer(ctx context.Context, cfg *config.Config, embedder embedding.Embedder) (Indexer, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Elastic.Host},
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES client: %w", err)
	}

	indexName := cfg.Elastic.IndexPrefix + "_guideline"

	indexer, err := es8.NewIndexer(ctx, &es8.IndexerConfig{
		Client:    client,
		Index:     indexName,
		BatchSize: 10,
		Embedding: embedder,
		DocumentToFields: func(ctx context.Context, doc *schema.Document) (map[string]es8.FieldValue, error) {
			return documentToESFields(doc), nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ES8 indexer: %w", err)
	}

	return &es8Indexer{
		indexer:    indexer,
		indexName:  indexName,
		client:     client,
		dimensions: cfg.AI.Embedding.Dimensions,
	}, nil
}

type es8Indexer struct {
	indexer    *es8.Indexer
	indexName  string
	client     *elasticsearch.Client
	dimensions int
}

func (w *es8Indexer) Store(ctx context.Context, docs []*schema.Document) ([]string, error) {
	return w.indexer.Store(ctx, docs)
}

// EnsureIndex 索引不存在时按向量映射创建
func (w *es8Indexer) EnsureIndex(ctx context.Context) error {
	return ensureESIndex(ctx, w.client, w.indexName, w.dimensions)
}

// documentToESFields 将 Eino Document 转换为 ES 字段,content 走向量化
func documentToESFields(doc *schema.Document) map[string]es8.FieldValue {
	fields := make(map[string]es8.FieldValue)

	fields["content"] = es8.FieldValue{
		Value:    doc.Content,
		EmbedKey: "content_vector",
	}

	if doc.MetaData != nil {
		for k, v := range doc.MetaData {
			fields[k] = es8.FieldValue{Value: v}
		}
	}
	return fields
}

// ensureESIndex 确保 ES 索引存在,不存在则按 dense_vector 映射创建
func ensureESIndex(ctx context.Context, client *elasticsearch.Client, indexName string, dimensions int) error {
	res, err := client.Indices.Exists([]string{indexName})
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == 200 {
		return nil
	}

	if dimensions == 0 {
		dimensions = 1536
	}

	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"content": map[string]interface{}{
					"type": "text",
				},
				"content_vector": map[string]interface{}{
					"type":       "dense_vector",
					"dims":       dimensions,
					"index":      true,
					"similarity": "cosine",
				},
				"document_id": map[string]interface{}{
					"type": "keyword",
				},
				"chunk_index": map[string]interface{}{
					"type": "integer",
				},
				"document_title": map[string]interface{}{
					"type": "text",
				},
				"source": map[string]interface{}{
					"type": "keyword",
				},
			},
		},
		"settings": map[string]interface{}{
			"number_of_shards":   1,
			"number_of_replicas": 0,
		},
	}

	mappingData, err := json.Marshal(mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	req := esapi.IndicesCreateRequest{
		Index: indexName,
		Body:  bytes.NewReader(mappingData),
	}

	res, err = req.Do(ctx, client)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to create index: %s", res.String())
	}

	log.Printf("Index %s created with %d dimensions", indexName, dimensions)
	return nil
}
