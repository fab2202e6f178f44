package members

import (
	"context"
	"time"

	"ong-client/pkg/models"
	"ong-client/pkg/screen"
	"ong-client/pkg/source"
)

// MembersAPI lists the organisation members
type MembersAPI interface {
	Members(ctx context.Context) ([]models.Member, error)
}

// ViewModel holds the members loader of one session
type ViewModel struct {
	members *source.Loader[[]models.Member]
}

func NewViewModel(sess *screen.Session, api MembersAPI, fetchTimeout time.Duration) *ViewModel {
	return &ViewModel{
		members: source.New(sess.Context(), "members", api.Members, source.Options{
			Timeout: fetchTimeout,
			Poster:  sess.Poster(),
			Log:     sess.Log,
		}),
	}
}

// GetMembers (re)fetches the list
func (vm *ViewModel) GetMembers() { vm.members.Trigger() }

func (vm *ViewModel) Members() *source.Loader[[]models.Member] { return vm.members }

func (vm *ViewModel) Wait()  { vm.members.Wait() }
func (vm *ViewModel) Close() { vm.members.Close() }
