package flow

import (
	"clientbook/internal/types"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type UnitTestSuite struct {
	suite.Suite
}

func TestUnitTestSuite(t *testing.T) {
	suite.Run(t, new(UnitTestSuite))
}

func (s *UnitTestSuite) TearDownTest() {
	RestoreTimeNow()
}

func day(s string) time.Time {
	t, err := time.Parse(types.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.Add(10 * time.Hour)
}

func client(id, name string, g types.Grade) types.ClientRecord {
	return types.ClientRecord{
		ID: id,
		ClientFields: types.ClientFields{
			Name:          name,
			Phone:         "0912-000-" + id,
			Grade:         g,
			ContactMethod: types.ContactPhone,
		},
	}
}
