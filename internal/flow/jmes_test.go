package flow

import "clientbook/internal/types"

func (s *UnitTestSuite) TestFilterMatch() {
	a := client("1", "Alice", types.GradeA)
	a.ContactMethod = types.ContactMessage
	b := client("2", "Bob", types.GradeB)

	f, err := CompileFilter("grade == 'A' && contactMethod == 'message'")
	s.Require().NoError(err)

	ok, err := f.Match(a)
	s.NoError(err)
	s.True(ok)

	ok, err = f.Match(b)
	s.NoError(err)
	s.False(ok)
}

func (s *UnitTestSuite) TestFilterNonBooleanDoesNotMatch() {
	f, err := CompileFilter("name")
	s.Require().NoError(err)
	ok, err := f.Match(client("1", "Alice", types.GradeA))
	s.NoError(err)
	s.False(ok)
}

func (s *UnitTestSuite) TestFilterApplyKeepsOrder() {
	c1 := client("1", "Ann", types.GradeA)
	c2 := client("2", "Ben", types.GradeC)
	c3 := client("3", "Amy", types.GradeA)

	f, err := CompileFilter("starts_with(name, 'A')")
	s.Require().NoError(err)
	out, err := f.Apply([]types.ClientRecord{c1, c2, c3})
	s.NoError(err)
	s.Require().Len(out, 2)
	s.Equal("1", out[0].ID)
	s.Equal("3", out[1].ID)
}

func (s *UnitTestSuite) TestFilterCompileError() {
	_, err := CompileFilter("grade ==")
	s.ErrorIs(err, types.ErrValidation)
}
