package health

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"
)

const (
	payloadStatusOk    = "ok"
	payloadStatusError = "error"
)

// ServiceStatus is one rendered entry of Payload.Services.
type ServiceStatus struct {
	Name   string
	Status string
}

// Payload is the JSON body returned for a health check:
//
//	{"status":"ok","timestamp":"...","services":{"database":"ok","cache":"error: timeout"}}
type Payload struct {
	Status    string
	Timestamp string
	Services  []ServiceStatus
}

// ToResponse maps a report to its HTTP status code and payload.
func ToResponse(report Report) (int, Payload) {
	payload := Payload{
		Status:    payloadStatusOk,
		Timestamp: report.Timestamp.UTC().Format(time.RFC3339),
		Services:  make([]ServiceStatus, 0, len(report.Services)),
	}
	for _, s := range report.Services {
		payload.Services = append(payload.Services, ServiceStatus{Name: s.Name, Status: s.Outcome.String()})
	}

	if report.Status != StatusOk {
		payload.Status = payloadStatusError
		return http.StatusServiceUnavailable, payload
	}
	return http.StatusOK, payload
}

// ServiceMap returns the services as a plain map.
func (p Payload) ServiceMap() map[string]string {
	m := make(map[string]string, len(p.Services))
	for _, s := range p.Services {
		m[s.Name] = s.Status
	}
	return m
}

// MarshalJSON writes services as an object keyed by probe name, keeping
// registry order instead of the sorted order of a Go map.
func (p Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"status":`)
	if err := writeJSON(&buf, p.Status); err != nil {
		return nil, err
	}
	buf.WriteString(`,"timestamp":`)
	if err := writeJSON(&buf, p.Timestamp); err != nil {
		return nil, err
	}
	buf.WriteString(`,"services":{`)
	for i, s := range p.Services {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSON(&buf, s.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSON(&buf, s.Status); err != nil {
			return nil, err
		}
	}
	buf.WriteString(`}}`)

	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v string) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
