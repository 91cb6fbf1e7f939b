package message

// CommandAction addresses a command to the session owner.
type CommandAction string

// Command actions.
const (
	CmdPlay           CommandAction = "PLAY"
	CmdPause          CommandAction = "PAUSE"
	CmdResume         CommandAction = "RESUME"
	CmdToggle         CommandAction = "TOGGLE"
	CmdSeek           CommandAction = "SEEK"
	CmdNext           CommandAction = "NEXT"
	CmdPrevious       CommandAction = "PREVIOUS"
	CmdLoopOn         CommandAction = "LOOP_ON"
	CmdLoopOff        CommandAction = "LOOP_OFF"
	CmdShuffleOn      CommandAction = "SHUFFLE_ON"
	CmdShuffleOff     CommandAction = "SHUFFLE_OFF"
	CmdDownloadSong   CommandAction = "DOWNLOAD_SONG"
	CmdGetCurrentSong CommandAction = "GET_CURRENT_SONG"
	CmdAddFavorite    CommandAction = "ADD_TO_FAVORITES"
	CmdRemoveFavorite CommandAction = "REMOVE_FROM_FAVORITES"
	CmdClose          CommandAction = "CLOSE"
)

// Command is a one-shot, fire-and-forget request to the session owner.
type Command struct {
	Action CommandAction
	Args   Args
}

// NewCommand builds a command. A nil args map is replaced by an empty one.
func NewCommand(action CommandAction, args Args) Command {
	if args == nil {
		args = Args{}
	}
	return Command{Action: action, Args: args}
}

// PlayArgs describes the track a PLAY command starts.
type PlayArgs struct {
	SongID   int64
	MediaURI string
	Title    string
	Artist   string
	ImageURI string
}

// Play builds a PLAY command.
func Play(p PlayArgs) Command {
	return NewCommand(CmdPlay, Args{
		KeySongID:   p.SongID,
		KeyMediaURI: p.MediaURI,
		KeyTitle:    p.Title,
		KeyArtist:   p.Artist,
		KeyImageURI: p.ImageURI,
	})
}

// PlayArgsFrom decodes the arguments of a PLAY command.
func PlayArgsFrom(a Args) (PlayArgs, bool) {
	id, ok := a.Int64(KeySongID)
	if !ok || id <= 0 {
		return PlayArgs{}, false
	}
	uri, _ := a.String(KeyMediaURI)
	title, _ := a.String(KeyTitle)
	artist, _ := a.String(KeyArtist)
	image, _ := a.String(KeyImageURI)
	return PlayArgs{
		SongID:   id,
		MediaURI: uri,
		Title:    title,
		Artist:   artist,
		ImageURI: image,
	}, true
}

// Seek builds a SEEK command.
func Seek(positionMs uint64) Command {
	return NewCommand(CmdSeek, Args{KeyPositionMs: positionMs})
}

// DownloadSong builds a DOWNLOAD_SONG command.
func DownloadSong(songID int64) Command {
	return NewCommand(CmdDownloadSong, Args{KeySongID: songID})
}

// Favorite builds ADD_TO_FAVORITES or REMOVE_FROM_FAVORITES for songID.
func Favorite(songID int64, favorite bool) Command {
	action := CmdRemoveFavorite
	if favorite {
		action = CmdAddFavorite
	}
	return NewCommand(action, Args{KeySongID: songID})
}
