// Package files groups source-file handling for a load run:
//   - filesystem: read-only filesystem abstraction (OS and in-memory)
//   - scanner: recursive discovery of source files and chunk partitioning
//
// # Usage
//
//	s := scanner.NewScanner()
//	found, err := s.Discover("./exports", ".csv")
//	for _, chunk := range scanner.Chunk(found, 20) {
//	    // parse, merge and load chunk
//	}
package files
