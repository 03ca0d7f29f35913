package ragpack

var manifestSchema = []byte(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Manifest",
  "type": "object",
  "required": ["version", "created_at", "generator", "domain", "counts", "checksums"],
  "properties": {
    "version": {"type": "string"},
    "created_at": {"type": "string", "format": "date-time"},
    "generator": {"type": "string"},
    "domain": {"type": "string"},
    "project_id": {"type": "integer"},
    "chunking_config": {"type": "object"},
    "counts": {
      "type": "object",
      "properties": {
        "documents": {"type": "integer"},
        "chunks": {"type": "integer"},
        "unique_chunks": {"type": "integer"}
      }
    },
    "checksums": {
      "type": "object",
      "additionalProperties": {"type": "string", "pattern": "^sha256:[0-9a-f]{64}$"}
    }
  }
}`)

var documentSchema = []byte(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "DocumentRecord",
  "type": "object",
  "required": ["doc_id", "url", "content_hash"],
  "properties": {
    "doc_id": {"type": "string"},
    "title": {"type": "string"},
    "url": {"type": "string"},
    "language": {"type": "string"},
    "source": {"type": "string"},
    "fetched_at": {"type": "string"},
    "content_hash": {"type": "string"}
  }
}`)

var chunkSchema = []byte(`{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Chunk",
  "type": "object",
  "required": ["chunk_id", "doc_id", "chunk_index", "text", "content_hash"],
  "properties": {
    "chunk_id": {"type": "string"},
    "doc_id": {"type": "string"},
    "chunk_index": {"type": "integer"},
    "text": {"type": "string"},
    "location": {"type": "object"},
    "structure": {"type": "object"},
    "language": {"type": "string"},
    "source": {"type": "object"},
    "hashes": {"type": "object"},
    "tokens_estimate": {"type": "integer"},
    "citation": {"type": "string"},
    "chunk_type": {"type": "string", "enum": ["text", "table", "code"]},
    "table_data": {"type": ["object", "null"]},
    "code_block": {"type": ["object", "null"]},
    "quality": {"type": ["object", "null"]},
    "content_hash": {"type": "string"},
    "is_duplicate": {"type": "boolean"},
    "duplicate_of": {"type": "string"},
    "embedding": {"type": ["array", "null"], "items": {"type": "number"}},
    "ai_metadata": {"type": ["object", "null"]},
    "created_at": {"type": "string"},
    "updated_at": {"type": ["string", "null"]}
  }
}`)
