package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainPipeline = "almanac/pipeline/v1"
	DomainRun      = "almanac/run/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PipelineHash computes the content hash of a pipeline.
// Stage names are part of the identity; stage and rule order are too.
func PipelineHash(p Pipeline) (string, error) {
	canonical, err := MarshalCanonical(p)
	if err != nil {
		return "", fmt.Errorf("PipelineHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPipeline, canonical), nil
}

// RunID computes the content-addressed ID of one pipeline run.
// The same pipeline, mode and seed values always produce the same ID.
func RunID(pipelineHash string, mode Mode, seeds []int64) (string, error) {
	seedList := make([]any, len(seeds))
	for i, s := range seeds {
		seedList[i] = s
	}
	obj := map[string]any{
		"pipeline_hash": pipelineHash,
		"mode":          string(mode),
		"seeds":         seedList,
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("RunID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRun, canonical), nil
}

// MustPipelineHash is like PipelineHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustPipelineHash(p Pipeline) string {
	h, err := PipelineHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
