package v1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

type MirrorSpec struct {
	// Index is the base URL of the upstream package index.
	Index string `json:"index,omitempty"`
	// DataRoot is the directory the sharded dataset is written to.
	DataRoot string `json:"dataRoot,omitempty"`
	// Concurrency caps the number of in-flight descriptor fetches.
	Concurrency int64 `json:"concurrency,omitempty"`
	// ShardWidth is the number of leading characters of the package
	// name used as the shard directory.
	ShardWidth int `json:"shardWidth,omitempty"`
	// ChunkSize is the number of packages processed per batch chunk.
	ChunkSize int `json:"chunkSize,omitempty"`
	// FetchTimeout bounds a single descriptor fetch.
	FetchTimeout metav1.Duration `json:"fetchTimeout,omitempty"`
}

type Mirror struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec MirrorSpec `json:"spec"`
}
