package backend

// memoryBackend implements spec.md §1's "memory-resident blobs": values
// materialized entirely in heap memory rather than backed by a file,
// most commonly resolved attribute values and synthesized scalar fields.
// Its physical layout rules (bit packing, endianness) are identical to
// the binary backend's, so it embeds one rather than duplicating the
// bit-level arithmetic; spec.md treats it as a distinct format tag
// because its Source is always a standalone byte slice, never an
// mmap'd/buffered product file.
type memoryBackend struct {
	binaryBackend
}
