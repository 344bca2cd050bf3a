package api

import (
	"bytes"
	"clientbook/internal/backends/file"
	"clientbook/internal/store"
	"clientbook/internal/types"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/suite"
)

const TestServerPort = 39080

type ServerTestSuite struct {
	suite.Suite

	dir      string
	stopChan chan<- struct{}
	doneChan <-chan error
}

func TestServerTestSuite(t *testing.T) {
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupSuite() {
	s.dir = s.T().TempDir()
	slot, err := file.NewSlot(s.dir, "crm_clients")
	s.Require().NoError(err)

	s.stopChan, s.doneChan = RunServerInterruptible(TestServerPort, NewHandler(store.New(slot), time.UTC))
	s.Require().Eventually(func() bool {
		resp, err := http.Get(s.url("/health"))
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)
}

func (s *ServerTestSuite) TearDownSuite() {
	close(s.stopChan)
	s.NoError(<-s.doneChan)
}

func (s *ServerTestSuite) url(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", TestServerPort, path)
}

func (s *ServerTestSuite) TestCreatePersistsToFile() {
	b, err := json.Marshal(types.ClientFields{Name: "林", Phone: "02-1234", Grade: types.GradeC})
	s.Require().NoError(err)
	resp, err := http.Post(s.url("/clients"), "application/json", bytes.NewReader(b))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode)

	var created types.ClientRecord
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&created))

	// a second store over the same file sees the write
	slot, err := file.NewSlot(s.dir, "crm_clients")
	s.Require().NoError(err)
	got, err := store.New(slot).Get(s.T().Context(), created.ID)
	s.Require().NoError(err)
	s.Equal(created, got)
}
