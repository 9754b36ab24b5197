package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	_ "modernc.org/sqlite"

	"sadapurne/internal/certificate"
	"sadapurne/internal/producer/models"
	"sadapurne/migrations"
	id "sadapurne/pkg/domain"
	dErrors "sadapurne/pkg/domain-errors"
	"sadapurne/pkg/testutil"
)

// StoreSuite runs the same behaviour checks against every backend that can
// run without external services.
type StoreSuite struct {
	suite.Suite
	newStore func(t *testing.T) Store
	store    Store
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: func(*testing.T) Store { return NewInMemoryStore() }})
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, &StoreSuite{newStore: newSQLiteStore})
}

func newSQLiteStore(t *testing.T) Store {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Apply(context.Background(), db, migrations.DialectSQLite); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return NewSQLStore(db, "sqlite", nil)
}

func (s *StoreSuite) SetupTest() {
	s.store = s.newStore(s.T())
}

func testProducer(aadhar string, verifiedAt time.Time) *models.Producer {
	return testutil.NewProducerBuilder().
		WithAadhar(id.Aadhar(aadhar)).
		WithBusinessName("Raj Traders").
		WithIncome(800000).
		VerifiedAt(verifiedAt).
		Build()
}

func (s *StoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	verifiedAt := time.Date(2025, 5, 1, 10, 30, 0, 0, time.UTC)
	p := testProducer("123456789012", verifiedAt)

	s.Require().NoError(s.store.Save(ctx, p))

	found, err := s.store.FindByAadhar(ctx, p.Aadhar)
	s.Require().NoError(err)
	s.Equal(p.Aadhar, found.Aadhar)
	s.Equal(p.Name, found.Name)
	s.Equal(p.BusinessName, found.BusinessName)
	s.Equal(p.LicenseNumber, found.LicenseNumber)
	s.InDelta(p.AnnualIncome, found.AnnualIncome, 0.001)
	s.Equal(certificate.TypeBasicRegistration, found.CertificateType)
	s.Equal("Retail Trade", found.BusinessType)
	s.True(p.IssueDate.Equal(found.IssueDate))
	s.Require().NotNil(found.ExpiryDate)
	s.True(p.ExpiryDate.Equal(*found.ExpiryDate))
	s.Equal(p.Address, found.Address)
	s.Equal(p.PINHash, found.PINHash)
	s.True(verifiedAt.Equal(found.VerifiedAt))
}

func (s *StoreSuite) TestOptionalFieldsRoundTripAsAbsent() {
	ctx := context.Background()
	p := testProducer("123456789012", time.Now().UTC().Truncate(time.Second))
	p.BusinessType = ""
	p.ExpiryDate = nil

	s.Require().NoError(s.store.Save(ctx, p))

	found, err := s.store.FindByAadhar(ctx, p.Aadhar)
	s.Require().NoError(err)
	s.Empty(found.BusinessType)
	s.Nil(found.ExpiryDate)
}

func (s *StoreSuite) TestSaveReplacesExistingRecord() {
	ctx := context.Background()
	first := testProducer("123456789012", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	second := testProducer("123456789012", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	second.BusinessName = "Raj Enterprises"
	second.CertificateType = certificate.TypeStateLicense
	second.LicenseNumber = "10019022000456"
	second.AnnualIncome = 2_000_000

	s.Require().NoError(s.store.Save(ctx, first))
	s.Require().NoError(s.store.Save(ctx, second))

	found, err := s.store.FindByAadhar(ctx, first.Aadhar)
	s.Require().NoError(err)
	s.Equal("Raj Enterprises", found.BusinessName)
	s.Equal(certificate.TypeStateLicense, found.CertificateType)
	s.Equal("10019022000456", found.LicenseNumber)

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 1)
}

func (s *StoreSuite) TestFindMissing() {
	_, err := s.store.FindByAadhar(context.Background(), id.Aadhar("999999999999"))
	s.ErrorIs(err, ErrNotFound)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *StoreSuite) TestListNewestFirst() {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.store.Save(ctx, testProducer("111111111111", base)))
	s.Require().NoError(s.store.Save(ctx, testProducer("222222222222", base.Add(2*time.Hour))))
	s.Require().NoError(s.store.Save(ctx, testProducer("333333333333", base.Add(time.Hour))))

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(id.Aadhar("222222222222"), all[0].Aadhar)
	s.Equal(id.Aadhar("333333333333"), all[1].Aadhar)
	s.Equal(id.Aadhar("111111111111"), all[2].Aadhar)
}

func (s *StoreSuite) TestListEmpty() {
	all, err := s.store.List(context.Background())
	s.Require().NoError(err)
	s.Empty(all)
}

func (s *StoreSuite) TestConcurrentSavesKeepOneRecordPerAadhar() {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	aadhars := []string{"111111111111", "222222222222"}

	result := testutil.RunConcurrent(10, func(idx int) error {
		return s.store.Save(ctx, testProducer(aadhars[idx%2], base.Add(time.Duration(idx)*time.Minute)))
	})
	s.Equal(int32(10), result.Successes)

	all, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.Len(all, 2)
}

func (s *StoreSuite) TestSaveNil() {
	s.Error(s.store.Save(context.Background(), nil))
}

func TestInMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	st := NewInMemoryStore()
	p := testProducer("123456789012", time.Now())
	if err := st.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	p.BusinessName = "mutated after save"

	found, err := st.FindByAadhar(ctx, p.Aadhar)
	if err != nil {
		t.Fatal(err)
	}
	found.PINHash[0] = 'x'

	again, _ := st.FindByAadhar(ctx, p.Aadhar)
	if again.BusinessName != "Raj Traders" {
		t.Fatalf("stored record changed through caller pointer: %q", again.BusinessName)
	}
	if again.PINHash[0] != '$' {
		t.Fatal("stored pin hash changed through returned slice")
	}
}
