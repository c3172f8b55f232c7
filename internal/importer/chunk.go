package importer

// Partition splits items into consecutive chunks of at most size elements.
// Chunks share the backing array of items.
func Partition[T any](items []T, size int) [][]T {
	if size <= 0 {
		panic("importer: chunk size must be positive")
	}
	if len(items) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
