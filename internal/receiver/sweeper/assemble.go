package sweeper

// Concatenates ordered chunk payloads into the original datagram body
func reassemble(payloads [][]byte) (data []byte) {
	var total int
	for _, payload := range payloads {
		total += len(payload)
	}

	data = make([]byte, 0, total)
	for _, payload := range payloads {
		data = append(data, payload...)
	}
	return
}
