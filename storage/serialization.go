// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package storage

import (
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/catalogmatch/core"
)

// maxAliases bounds the alias count read from storage so a corrupt length
// prefix cannot trigger a huge allocation.
const maxAliases = 1 << 16

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	v, _, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return core.ID(v), nil
}

// MarshalCatalogEntry serializes a CatalogEntry to bytes.
func MarshalCatalogEntry(entry *core.CatalogEntry) []byte {
	size := varint.Uint64.Size(uint64(entry.Id)) + ord.String.Size(entry.Name)
	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), buf)
	ord.String.Marshal(entry.Name, buf[n:])
	return buf
}

// UnmarshalCatalogEntry deserializes a CatalogEntry from bytes.
func UnmarshalCatalogEntry(data []byte) (*core.CatalogEntry, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: entry id: %w", ErrSerializationFailed, err)
	}
	name, _, err := ord.String.Unmarshal(data[n:])
	if err != nil {
		return nil, fmt.Errorf("%w: entry name: %w", ErrSerializationFailed, err)
	}
	return &core.CatalogEntry{Id: core.ID(id), Name: name}, nil
}

// MarshalSynonymEntry serializes a SynonymEntry to bytes.
func MarshalSynonymEntry(entry *core.SynonymEntry) []byte {
	size := varint.Uint64.Size(uint64(entry.Id)) +
		varint.Uint64.Size(uint64(entry.Kind)) +
		ord.String.Size(entry.Canonical) +
		varint.Uint64.Size(uint64(len(entry.Aliases)))
	for _, alias := range entry.Aliases {
		size += ord.String.Size(alias)
	}

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(uint64(entry.Id), buf)
	n += varint.Uint64.Marshal(uint64(entry.Kind), buf[n:])
	n += ord.String.Marshal(entry.Canonical, buf[n:])
	n += varint.Uint64.Marshal(uint64(len(entry.Aliases)), buf[n:])
	for _, alias := range entry.Aliases {
		n += ord.String.Marshal(alias, buf[n:])
	}
	return buf
}

// UnmarshalSynonymEntry deserializes a SynonymEntry from bytes.
func UnmarshalSynonymEntry(data []byte) (*core.SynonymEntry, error) {
	id, n, err := varint.Uint64.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: synonym id: %w", ErrSerializationFailed, err)
	}
	offset := n

	kind, n, err := varint.Uint64.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: synonym kind: %w", ErrSerializationFailed, err)
	}
	offset += n

	canonical, n, err := ord.String.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: synonym canonical: %w", ErrSerializationFailed, err)
	}
	offset += n

	count, n, err := varint.Uint64.Unmarshal(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("%w: alias count: %w", ErrSerializationFailed, err)
	}
	offset += n
	if count > maxAliases {
		return nil, fmt.Errorf("%w: alias count %d out of range", ErrSerializationFailed, count)
	}

	aliases := make([]string, 0, count)
	for i := uint64(0); i < count; i++ {
		alias, n, err := ord.String.Unmarshal(data[offset:])
		if err != nil {
			return nil, fmt.Errorf("%w: alias %d: %w", ErrSerializationFailed, i, err)
		}
		offset += n
		aliases = append(aliases, alias)
	}

	return &core.SynonymEntry{
		Id:        core.ID(id),
		Kind:      core.SynonymKind(kind),
		Canonical: canonical,
		Aliases:   aliases,
	}, nil
}
