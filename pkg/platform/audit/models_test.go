package audit

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// AuditEventSuite checks category mapping. Unknown events must never be
// dropped from the trail, so they fall back to operations.
type AuditEventSuite struct {
	suite.Suite
}

func TestAuditEventSuite(t *testing.T) {
	suite.Run(t, new(AuditEventSuite))
}

func (s *AuditEventSuite) TestCategory_ComplianceEvents() {
	for _, event := range []AuditEvent{EventVerificationSucceeded, EventVerificationFailed, EventProducersExported} {
		s.Run(string(event), func() {
			s.Equal(CategoryCompliance, event.Category())
		})
	}
}

func (s *AuditEventSuite) TestCategory_OperationsEvents() {
	s.Equal(CategoryOperations, EventProducerStoreFailed.Category())
}

func (s *AuditEventSuite) TestCategory_UnknownFallsBackToOperations() {
	s.Equal(CategoryOperations, AuditEvent("something_new").Category())
}
