package restyutil

// InstrumentOutput receives a formatted request/response pair per request id.
type InstrumentOutput interface {
	Write(id string, contents string)
}
