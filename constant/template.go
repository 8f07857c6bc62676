package constant

// ProfilesTemplate is written by "mediabridge profiles init" when no profiles file exists.
const ProfilesTemplate = `# Custom engine profiles.
# Every profile reuses the behavior of a built-in engine ("base") and may
# rename its native events or replace its error table.
#
# Built-in engines: html5, mpv, shaka, twitch, twitch-offline

profiles:
  - name: mpv-idle
    base: mpv
    label: mpv (idle)
    ready_timeout: 45s
    events:
      ended: [eof, idle]

#  - name: kiosk
#    base: html5
#    load: promise
#    can_stop: false
#    errors:
#      categories:
#        KIOSK: 9
#      codes:
#        SCREEN_OFF: 90
`
